package auth

import "time"

// EditSession is the capability that allows writes. Components that mutate
// data take one explicitly instead of consulting global edit state.
type EditSession struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CanEdit reports whether the session is present and unexpired.
func (s *EditSession) CanEdit() bool {
	return s != nil && time.Now().Before(s.ExpiresAt)
}

// Source names how the session was obtained.
func (s *EditSession) Source() string { return "EDIT_TOKEN" }
