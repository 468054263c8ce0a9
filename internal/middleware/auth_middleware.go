package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/ClinkedIn/Backend-sub001/internal/config"
	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/ClinkedIn/Backend-sub001/internal/model"
)

type contextKey string

const UserContextKey contextKey = "userContext"

type AuthMiddleware struct {
	jwtSecret string
}

func NewAuthMiddleware(cfg *config.AppConfig) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret: cfg.JWTSecret,
	}
}

func (m *AuthMiddleware) VerifyToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			helper.WriteError(w, helper.NewUnauthorizedError(""))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			helper.WriteError(w, helper.NewUnauthorizedError(""))
			return
		}

		user, err := m.authenticate(parts[1])
		if err != nil {
			helper.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// VerifyWSToken reads the token from the query string because browser
// WebSocket clients cannot set an Authorization header.
func (m *AuthMiddleware) VerifyWSToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			helper.WriteError(w, helper.NewUnauthorizedError(""))
			return
		}

		user, err := m.authenticate(tokenString)
		if err != nil {
			helper.WriteError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) authenticate(tokenString string) (*model.AuthUser, error) {
	claims, err := helper.ParseJWT(m.jwtSecret, tokenString)
	if err != nil {
		return nil, helper.NewUnauthorizedError("")
	}
	return &model.AuthUser{ID: claims.UserID}, nil
}

// UserFromContext returns the authenticated user set by VerifyToken, or nil.
func UserFromContext(ctx context.Context) *model.AuthUser {
	user, _ := ctx.Value(UserContextKey).(*model.AuthUser)
	return user
}
