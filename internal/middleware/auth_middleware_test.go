package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ClinkedIn/Backend-sub001/internal/config"
	"github.com/ClinkedIn/Backend-sub001/internal/helper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestHandler(t *testing.T, wantUserID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		require.NotNil(t, user)
		assert.Equal(t, wantUserID, user.ID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestVerifyTokenValidBearer(t *testing.T) {
	m := NewAuthMiddleware(&config.AppConfig{JWTSecret: "test-secret"})

	token, err := helper.GenerateJWT("test-secret", 1, "user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.VerifyToken(authTestHandler(t, "user-1")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVerifyTokenMissingHeader(t *testing.T) {
	m := NewAuthMiddleware(&config.AppConfig{JWTSecret: "test-secret"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	m.VerifyToken(authTestHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	m := NewAuthMiddleware(&config.AppConfig{JWTSecret: "test-secret"})

	token, err := helper.GenerateJWT("other-secret", 1, "user-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	m.VerifyToken(authTestHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyTokenMalformedHeader(t *testing.T) {
	m := NewAuthMiddleware(&config.AppConfig{JWTSecret: "test-secret"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()

	m.VerifyToken(authTestHandler(t, "")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyWSTokenQueryParam(t *testing.T) {
	m := NewAuthMiddleware(&config.AppConfig{JWTSecret: "test-secret"})

	token, err := helper.GenerateJWT("test-secret", 1, "user-2")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	rec := httptest.NewRecorder()

	m.VerifyWSToken(authTestHandler(t, "user-2")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
