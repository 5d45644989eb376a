package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/logging"
)

// Recoverer turns a handler panic into a 500 response and logs the stack.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.Error("Handler panicked",
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"panic", rec,
					"stack", string(debug.Stack()),
				)
				common.RespondError(w, start, errors.New("Internal server error"), "", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
