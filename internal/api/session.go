package api

import (
	"errors"
	"net/http"
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/logging"
	"route-vending/tablegrid/internal/models/dtos"
)

// OpenSession handles POST /api/v1/session
func (h *Handlers) OpenSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.SessionRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}
		if err := dtos.Validate(req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		token, session, err := h.deps.Services.Sessions.Open(r.Context(), req.UserID, req.Secret)
		if err != nil {
			if errors.Is(err, constants.ErrUnauthorized) {
				common.RespondError(w, initTime, nil, constants.MsgIncorrectSecret, http.StatusUnauthorized)
				return
			}
			respondServiceError(w, initTime, err, "Failed to open edit session")
			return
		}

		logging.Info("Edit session opened", "session_id", session.SessionID, "user_id", session.UserID)
		common.RespondSuccess(w, initTime, "Edit mode enabled", dtos.SessionResponse{
			Token:     token,
			ExpiresAt: session.ExpiresAt,
		}, http.StatusCreated)
	}
}

// CloseSession handles DELETE /api/v1/session
func (h *Handlers) CloseSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		session := auth.GetEditSession(r.Context())
		if err := h.deps.Services.Sessions.Close(r.Context(), session); err != nil {
			common.RespondError(w, initTime, nil, constants.StatusUnauthorized, http.StatusUnauthorized)
			return
		}
		logging.Info("Edit session closed", "session_id", session.SessionID)
		common.RespondSuccess(w, initTime, "Edit mode disabled", nil)
	}
}
