package middleware

import (
	"context"
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/session"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
)

type SessionLookup interface {
	Get(id string) (*session.Session, bool)
}

// RequireSession exige que a sessão do token ainda esteja aberta e a grava no contexto
func RequireSession(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Token ausente", nil)
				return
			}

			s, ok := sessions.Get(claims.SessionID)
			if !ok || s.Closed() {
				apiErrors.WriteError(w, apiErrors.ErrSessionClosed, "Sessão encerrada, faça login novamente", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySession, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func SessionFromContext(ctx context.Context) (*session.Session, bool) {
	s, ok := ctx.Value(ContextKeySession).(*session.Session)
	return s, ok && s != nil
}
