package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mtlprog/taskdeck/internal/auth"
	"github.com/mtlprog/taskdeck/internal/domain"
)

type contextKey string

const (
	// ContextKeyActor is the key for storing the actor in request context.
	ContextKeyActor contextKey = "actor"
)

// AuthMiddleware handles Bearer token authentication.
type AuthMiddleware struct {
	jwtSecret string
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(jwtSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: jwtSecret,
	}
}

// Authenticate validates the Bearer token and adds the actor it
// identifies to the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
			return
		}

		token := parts[1]
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		actor, err := auth.ParseToken(m.jwtSecret, token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyActor, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActorFromContext retrieves the authenticated actor from request context.
func GetActorFromContext(ctx context.Context) (domain.Actor, error) {
	actor, ok := ctx.Value(ContextKeyActor).(domain.Actor)
	if !ok || actor.ID == "" {
		return domain.Actor{}, domain.ErrInvalidToken
	}
	return actor, nil
}
