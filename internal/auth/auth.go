// Package auth issues and verifies the bearer tokens that identify
// callers. Tokens are HS256 JWTs carrying the user id in the subject
// claim and, optionally, a role claim. A token without a role is valid:
// permission checks treat the caller as non-admin.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mtlprog/taskdeck/internal/domain"
)

// Claims is the JWT payload for taskdeck tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// MintToken signs a token for the given user id. role may be empty; ttl
// must be positive.
func MintToken(secret, userID string, role domain.Role, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret not configured")
	}
	if userID == "" {
		return "", errors.New("user id is required")
	}
	if ttl <= 0 {
		return "", errors.New("token ttl must be positive")
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken verifies a token and returns the actor it identifies.
// An unknown or missing role claim degrades to an empty role.
func ParseToken(secret, raw string) (domain.Actor, error) {
	if secret == "" {
		return domain.Actor{}, errors.New("jwt secret not configured")
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return domain.Actor{}, fmt.Errorf("%w: %s", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.Actor{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return domain.Actor{}, fmt.Errorf("%w: subject claim required", domain.ErrInvalidToken)
	}

	actor := domain.Actor{ID: claims.Subject}
	if role := domain.Role(claims.Role); role.IsValid() {
		actor.Role = role
	}
	return actor, nil
}
