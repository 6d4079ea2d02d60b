package realtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier authenticates a connection credential and resolves the user
// it belongs to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (userID string, err error)
}

// JWTVerifier validates HS256 bearer tokens. The token subject carries the
// user id; expiry and not-before claims are honored.
type JWTVerifier struct {
	key []byte
}

// NewJWTVerifier creates a verifier with the given signing key.
func NewJWTVerifier(key []byte) (*JWTVerifier, error) {
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}
	return &JWTVerifier{key: key}, nil
}

func (v *JWTVerifier) Verify(ctx context.Context, token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil {
		return "", errors.Join(ErrUnauthorized, err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: token has no subject", ErrUnauthorized)
	}
	return sub, nil
}
