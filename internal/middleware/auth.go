package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"route-vending/tablegrid/internal/auth"
	"route-vending/tablegrid/internal/common"
	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/logging"
)

// SessionValidator turns a bearer token into an edit session.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*auth.EditSession, error)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

// RequireEditSession rejects requests without a valid edit session token.
func RequireEditSession(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			token := bearerToken(r)
			if token == "" {
				common.RespondError(w, start, errors.New(constants.StatusUnauthorized), "", http.StatusUnauthorized)
				return
			}

			session, err := validator.Validate(r.Context(), token)
			if err != nil {
				logging.Info("Edit session rejected", "request_id", GetRequestID(r.Context()), "error", err)
				common.RespondError(w, start, errors.New(constants.StatusUnauthorized), "", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetEditSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalEditSession attaches the session when a valid token is sent and
// lets every request through.
func OptionalEditSession(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			if session, err := validator.Validate(r.Context(), token); err == nil {
				r = r.WithContext(auth.SetEditSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}
