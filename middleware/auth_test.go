package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"humanity-verse-backend/services"
	"humanity-verse-backend/utils"
)

const testAuthSecret = "test-secret"

func newAuthService() *services.AuthService {
	return services.NewAuthService(nil, services.NewMemorySessionStore(), testAuthSecret, zap.NewNop())
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthMissingToken(t *testing.T) {
	handler := Auth(newAuthService())(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthInvalidFormat(t *testing.T) {
	handler := Auth(newAuthService())(http.HandlerFunc(okHandler))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "InvalidFormat")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthValidToken(t *testing.T) {
	token, _, err := utils.GenerateToken("user1", "test@example.com", testAuthSecret)
	require.NoError(t, err)

	handler := Auth(newAuthService())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetUserFromContext(r.Context())
		require.NotNil(t, claims)
		assert.Equal(t, "user1", claims.UserID)
		assert.Equal(t, "test@example.com", claims.Email)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthRevokedSession(t *testing.T) {
	svc := newAuthService()
	token, claims, err := utils.GenerateToken("user1", "test@example.com", testAuthSecret)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(context.Background(), claims))

	handler := Auth(svc)(http.HandlerFunc(okHandler))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Your session has ended")
}

func TestGuest(t *testing.T) {
	svc := newAuthService()
	handler := Guest(svc)(http.HandlerFunc(okHandler))

	t.Run("sans token", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("déjà connecté", func(t *testing.T) {
		token, _, err := utils.GenerateToken("user1", "test@example.com", testAuthSecret)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("token expiré ou invalide", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
