package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/mutations"
	"route-vending/tablegrid/internal/models/dtos"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// statusFor maps the error taxonomy to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, constants.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, constants.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, constants.ErrProtected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, constants.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, constants.ErrConfirmationRequired):
		return http.StatusPreconditionRequired
	case errors.Is(err, constants.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with its mapped status. Internal errors are
// logged and replaced by fallback so storage details do not leak.
func respondServiceError(w http.ResponseWriter, initTime time.Time, err error, fallback string) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		common.RespondInternalError(w, initTime, err, fallback)
		return
	}
	common.RespondError(w, initTime, err, fallback, code)
}

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid JSON body: %v", constants.ErrValidation, err)
	}
	return nil
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// respondTicket waits for a mutation unless the caller asked for async
// dispatch, in which case the pending key is returned with 202.
func respondTicket(w http.ResponseWriter, r *http.Request, initTime time.Time, ticket *mutations.Ticket, message string, code int) {
	if queryBool(r, "async") {
		select {
		case <-ticket.Done():
		default:
			common.RespondPending(w, initTime, dtos.PendingMutation{
				Operation: string(ticket.Key.Op),
				TargetID:  ticket.Key.TargetID,
				StartedAt: ticket.StartedAt,
			})
			return
		}
	}

	result, err := ticket.Wait(r.Context())
	if err != nil {
		respondServiceError(w, initTime, err, "Failed to "+ticket.Key.Op.Action())
		return
	}
	common.RespondSuccess(w, initTime, message, result, code)
}
