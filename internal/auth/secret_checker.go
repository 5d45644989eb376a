package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"route-vending/tablegrid/internal/constants"
)

// SecretChecker verifies the credential presented to open an edit session.
type SecretChecker interface {
	CheckSecret(ctx context.Context, secret string) error
}

// StaticSecretChecker compares against one shared secret. It gates edit mode
// for a trusted team and is not a security boundary; swap in a real identity
// provider behind SecretChecker for anything else.
type StaticSecretChecker struct {
	secret []byte
}

var _ SecretChecker = (*StaticSecretChecker)(nil)

func NewStaticSecretChecker(secret string) *StaticSecretChecker {
	return &StaticSecretChecker{secret: []byte(secret)}
}

// CheckSecret rejects everything when no secret is configured.
func (c *StaticSecretChecker) CheckSecret(_ context.Context, secret string) error {
	if len(c.secret) == 0 {
		return fmt.Errorf("%w: editing is disabled", constants.ErrUnauthorized)
	}
	if subtle.ConstantTimeCompare(c.secret, []byte(secret)) != 1 {
		return fmt.Errorf("%w: %s", constants.ErrUnauthorized, constants.MsgIncorrectSecret)
	}
	return nil
}
