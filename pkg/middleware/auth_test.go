package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/session"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
)

type stubValidator struct {
	claims *domain.Claims
	err    error
}

func (s stubValidator) ValidateToken(string) (*domain.Claims, error) {
	return s.claims, s.err
}

type expiredError struct{}

func (expiredError) Error() string     { return "expirado" }
func (expiredError) ErrorCode() string { return apiErrors.ErrExpiredToken }

type stubSessions map[string]*session.Session

func (s stubSessions) Get(id string) (*session.Session, bool) {
	sess, ok := s[id]
	return sess, ok
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	claims := &domain.Claims{UserID: "u1", SessionID: "s1"}

	tests := []struct {
		name         string
		path         string
		header       string
		validator    stubValidator
		expectedCode int
	}{
		{name: "rota pública", path: "/v1/login", expectedCode: http.StatusNoContent},
		{name: "sem header", path: "/v1/sales/revenue", expectedCode: http.StatusUnauthorized},
		{name: "sem bearer", path: "/v1/sales/revenue", header: "abc", expectedCode: http.StatusUnauthorized},
		{name: "token inválido", path: "/v1/sales/revenue", header: "Bearer x", validator: stubValidator{err: errors.New("ruim")}, expectedCode: http.StatusUnauthorized},
		{name: "token expirado", path: "/v1/sales/revenue", header: "Bearer x", validator: stubValidator{err: expiredError{}}, expectedCode: http.StatusUnauthorized},
		{name: "token válido", path: "/v1/sales/revenue", header: "Bearer x", validator: stubValidator{claims: claims}, expectedCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.validator)(okHandler(t)).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedCode, rec.Code)
		})
	}
}

func TestAuthMiddleware_ExpiredCode(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()

	AuthMiddleware(stubValidator{err: expiredError{}})(okHandler(t)).ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), apiErrors.ErrExpiredToken)
}

func TestRequireSession(t *testing.T) {
	claims := &domain.Claims{UserID: "u1", SessionID: "s1"}
	chain := func(sessions SessionLookup) http.Handler {
		return AuthMiddleware(stubValidator{claims: claims})(RequireSession(sessions)(okHandler(t)))
	}

	t.Run("sessão inexistente", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/dashboard", nil)
		req.Header.Set("Authorization", "Bearer x")
		rec := httptest.NewRecorder()

		chain(stubSessions{}).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), apiErrors.ErrSessionClosed)
	})
}
