package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"route-vending/tablegrid/internal/constants"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	items map[string]interface{}
}

func (m *memStore) Set(key string, value interface{}, _ time.Duration) { m.items[key] = value }
func (m *memStore) Get(key string) (interface{}, bool) {
	v, ok := m.items[key]
	return v, ok
}

func newIssuer(secret string) (*SessionIssuer, *memStore) {
	store := &memStore{items: map[string]interface{}{}}
	return NewSessionIssuer(NewStaticSecretChecker(secret), "test-key", time.Hour, store), store
}

func TestStaticSecretChecker(t *testing.T) {
	ctx := context.Background()

	assert.NoError(t, NewStaticSecretChecker("s3cret").CheckSecret(ctx, "s3cret"))

	err := NewStaticSecretChecker("s3cret").CheckSecret(ctx, "guess")
	assert.True(t, errors.Is(err, constants.ErrUnauthorized))

	err = NewStaticSecretChecker("").CheckSecret(ctx, "")
	assert.True(t, errors.Is(err, constants.ErrUnauthorized))
}

func TestSessionIssuer_OpenValidateClose(t *testing.T) {
	issuer, _ := newIssuer("s3cret")
	ctx := context.Background()

	token, session, err := issuer.Open(ctx, "u1", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.True(t, session.CanEdit())

	got, err := issuer.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, session.SessionID, got.SessionID)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.CanEdit())

	require.NoError(t, issuer.Close(ctx, got))
	_, err = issuer.Validate(ctx, token)
	assert.True(t, errors.Is(err, constants.ErrUnauthorized))
}

func TestSessionIssuer_RejectsWrongSecret(t *testing.T) {
	issuer, _ := newIssuer("s3cret")
	_, _, err := issuer.Open(context.Background(), "u1", "nope")
	assert.True(t, errors.Is(err, constants.ErrUnauthorized))
}

func TestSessionIssuer_RejectsForeignAndExpiredTokens(t *testing.T) {
	issuer, _ := newIssuer("s3cret")
	ctx := context.Background()

	other := NewSessionIssuer(NewStaticSecretChecker("s3cret"), "other-key", time.Hour, nil)
	foreign, _, err := other.Open(ctx, "u1", "s3cret")
	require.NoError(t, err)
	_, err = issuer.Validate(ctx, foreign)
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"jti": "old",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("test-key"))
	require.NoError(t, err)
	_, err = issuer.Validate(ctx, signed)
	assert.True(t, errors.Is(err, constants.ErrUnauthorized))

	_, err = issuer.Validate(ctx, "garbage")
	assert.Error(t, err)
}

func TestEditSessionContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetEditSession(ctx))
	assert.False(t, GetEditSession(ctx).CanEdit())

	s := &EditSession{SessionID: "x", ExpiresAt: time.Now().Add(time.Minute)}
	ctx = SetEditSession(ctx, s)
	assert.Same(t, s, GetEditSession(ctx))
}
