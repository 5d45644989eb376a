package auth

import (
	"context"
)

type contextKey string

var editSessionKey contextKey = "edit_session"

func SetEditSession(ctx context.Context, session *EditSession) context.Context {
	return context.WithValue(ctx, editSessionKey, session)
}

// GetEditSession returns nil when the request carries no edit session.
func GetEditSession(ctx context.Context) *EditSession {
	if s, ok := ctx.Value(editSessionKey).(*EditSession); ok {
		return s
	}
	return nil
}
