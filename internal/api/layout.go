package api

import (
	"net/http"
	"time"

	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/models/dtos"
)

// GetLayout handles GET /api/v1/layout?userId=
func (h *Handlers) GetLayout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		userID := r.URL.Query().Get("userId")
		if userID == "" {
			respondServiceError(w, initTime, constants.NewFieldError("userId", "is required"), constants.StatusInvalidData)
			return
		}

		cols, err := h.deps.Services.TableCache.Columns(r.Context())
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to fetch columns")
			return
		}
		layout := h.deps.Services.Layouts.Resolve(r.Context(), userID, cols)
		common.RespondSuccess(w, initTime, "Layout fetched successfully", layout)
	}
}

// SaveLayout handles POST /api/v1/layout
func (h *Handlers) SaveLayout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.LayoutRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		layout, err := h.deps.Services.Layouts.SaveLayout(r.Context(), req)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to save layout")
			return
		}
		common.RespondSuccess(w, initTime, "Layout saved successfully", layout)
	}
}

// ToggleColumn handles POST /api/v1/layout/toggle
func (h *Handlers) ToggleColumn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		initTime := time.Now()

		var req dtos.ToggleColumnRequest
		if err := decodeJSON(r, &req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}
		if err := dtos.Validate(req); err != nil {
			respondServiceError(w, initTime, err, constants.StatusInvalidData)
			return
		}

		layout, err := h.deps.Services.Layouts.ToggleColumn(r.Context(), req.UserID, req.ColumnID)
		if err != nil {
			respondServiceError(w, initTime, err, "Failed to toggle column")
			return
		}
		common.RespondSuccess(w, initTime, "Column visibility updated", layout)
	}
}
