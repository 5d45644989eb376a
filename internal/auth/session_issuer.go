package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"route-vending/tablegrid/internal/constants"
	"route-vending/tablegrid/internal/logging"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const revokedPrefix = "revoked_session:"

// RevocationStore remembers revoked session ids until they would expire anyway.
type RevocationStore interface {
	Set(key string, value interface{}, duration time.Duration)
	Get(key string) (interface{}, bool)
}

// SessionIssuer signs and validates edit-session tokens (HS256).
type SessionIssuer struct {
	checker    SecretChecker
	signingKey []byte
	ttl        time.Duration
	revoked    RevocationStore
}

// NewSessionIssuer creates an issuer. An empty signingKey is replaced by a
// random one, which invalidates issued tokens on restart.
func NewSessionIssuer(checker SecretChecker, signingKey string, ttl time.Duration, revoked RevocationStore) *SessionIssuer {
	key := []byte(signingKey)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("failed to generate signing key: %v", err))
		}
		logging.Warn("No signing key configured, edit sessions will not survive a restart")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &SessionIssuer{checker: checker, signingKey: key, ttl: ttl, revoked: revoked}
}

// Open checks the secret and issues a signed token for a new edit session.
func (s *SessionIssuer) Open(ctx context.Context, userID, secret string) (string, *EditSession, error) {
	if err := s.checker.CheckSecret(ctx, secret); err != nil {
		return "", nil, err
	}

	now := time.Now()
	session := &EditSession{
		SessionID: uuid.New().String(),
		UserID:    userID,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	claims := jwt.MapClaims{
		"sub": userID,
		"jti": session.SessionID,
		"exp": session.ExpiresAt.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, session, nil
}

// Validate parses a token and returns its session.
func (s *SessionIssuer) Validate(_ context.Context, tokenString string) (*EditSession, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", constants.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", constants.ErrUnauthorized)
	}

	sessionID, ok := (*claims)["jti"].(string)
	if !ok || sessionID == "" {
		return nil, fmt.Errorf("%w: missing or invalid jti claim", constants.ErrUnauthorized)
	}
	userID, _ := (*claims)["sub"].(string)

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: missing or invalid exp claim", constants.ErrUnauthorized)
	}
	iat, _ := claims.GetIssuedAt()

	if s.isRevoked(sessionID) {
		return nil, fmt.Errorf("%w: session closed", constants.ErrUnauthorized)
	}

	session := &EditSession{SessionID: sessionID, UserID: userID, ExpiresAt: exp.Time}
	if iat != nil {
		session.IssuedAt = iat.Time
	}
	return session, nil
}

// Close revokes the session for the rest of its lifetime.
func (s *SessionIssuer) Close(_ context.Context, session *EditSession) error {
	if session == nil {
		return errors.New("no session")
	}
	if s.revoked == nil {
		return nil
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	s.revoked.Set(revokedPrefix+session.SessionID, true, ttl)
	return nil
}

func (s *SessionIssuer) isRevoked(sessionID string) bool {
	if s.revoked == nil {
		return false
	}
	_, found := s.revoked.Get(revokedPrefix + sessionID)
	return found
}
