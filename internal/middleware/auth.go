package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"freelance-booking-api/internal/auth"
	"freelance-booking-api/internal/model"
)

type ctxKey string

const userKey ctxKey = "user"

// UserResolver re-resolves the token subject against the user store, so a
// request always acts as the account's current state rather than the claims
// frozen into the token.
type UserResolver interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
}

// Auth guards a route group with Bearer tokens.
func Auth(secret string, users UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				unauthorized(w, "missing token")
				return
			}

			claims, err := auth.ParseToken(raw, secret)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					unauthorized(w, "token expired")
					return
				}
				unauthorized(w, "invalid token")
				return
			}

			u, err := users.UserByID(r.Context(), claims.Subject)
			if err != nil {
				unauthorized(w, "user not found")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		})
	}
}

// UserFrom returns the authenticated user, nil on unguarded routes.
func UserFrom(ctx context.Context) *model.User {
	u, _ := ctx.Value(userKey).(*model.User)
	return u
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
