package common

import (
	"encoding/json"
	"net/http"
	"time"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/logging"
	"route-vending/tablegrid/internal/models/dtos"
)

const (
	HeaderResponseTime    = "X-Response-Time"
	HeaderPendingOp       = "X-Pending-Operation"
	HeaderPendingTarget   = "X-Pending-Target"
	MsgMutationDispatched = "Mutation dispatched"
)

// RespondSuccess writes an ok envelope, 200 unless a code is given.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	writeEnvelope(w, initTime, codeOr(http.StatusOK, statusCode), constants.APIStatusOk, message, data)
}

// RespondError writes an error envelope, 500 unless a code is given. The
// error text wins over message when it is not empty.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	writeEnvelope(w, initTime, codeOr(http.StatusInternalServerError, statusCode), constants.APIStatusError, message, nil)
}

// RespondInternalError logs err and answers 500 with message alone, so
// storage and driver errors stay out of the body.
func RespondInternalError(w http.ResponseWriter, initTime time.Time, err error, message string) {
	logging.Error(message, "error", err)
	writeEnvelope(w, initTime, http.StatusInternalServerError, constants.APIStatusError, message, nil)
}

// RespondPending answers 202 for a mutation still in flight. The pending key
// is echoed in headers so clients can match it against the pending list.
func RespondPending(w http.ResponseWriter, initTime time.Time, pending dtos.PendingMutation) {
	w.Header().Set(HeaderPendingOp, pending.Operation)
	w.Header().Set(HeaderPendingTarget, pending.TargetID)
	writeEnvelope(w, initTime, http.StatusAccepted, constants.APIStatusOk, MsgMutationDispatched, pending)
}

func codeOr(fallback int, codes []int) int {
	if len(codes) > 0 {
		return codes[0]
	}
	return fallback
}

func writeEnvelope(w http.ResponseWriter, initTime time.Time, code int, status constants.APIStatus, message string, data any) {
	elapsed := GetResponseTime(initTime)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(HeaderResponseTime, elapsed)
	w.WriteHeader(code)

	err := json.NewEncoder(w).Encode(dtos.APIResponse{
		Status:       string(status),
		Message:      message,
		ResponseTime: elapsed,
		Data:         data,
	})
	if err != nil {
		logging.Error("JSON encode failed", "error", err, "status", code)
	}
}
