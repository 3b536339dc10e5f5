package handler

import (
	"net/http"

	"github.com/vfg2006/sales-dashboard-api/internal/session"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

type DateRangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SearchRequest struct {
	Term string `json:"term"`
}

type SelectClientRequest struct {
	ClientID string `json:"client_id"`
}

// GetDashboard retorna o estado atual de todas as views da sessão
func GetDashboard() http.HandlerFunc {
	return withSession(func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		writeJSON(w, s.Snapshot())
	})
}

func SetDashboardDateRange() http.HandlerFunc {
	return withSession(func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var req DateRangeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		start, err := utils.ParseDate(req.Start)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "start inválido, use YYYY-MM-DD", nil)
			return
		}
		end, err := utils.ParseDate(req.End)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "end inválido, use YYYY-MM-DD", nil)
			return
		}

		if _, err := s.SetDateRange(start, end); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrSessionClosed, err.Error(), nil)
			return
		}

		writeJSONStatus(w, http.StatusAccepted, s.Snapshot())
	})
}

func SetDashboardSearch() http.HandlerFunc {
	return withSession(func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := s.SetSearchTerm(req.Term); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrSessionClosed, err.Error(), nil)
			return
		}

		writeJSONStatus(w, http.StatusAccepted, s.Snapshot())
	})
}

func SetDashboardClient() http.HandlerFunc {
	return withSession(func(w http.ResponseWriter, r *http.Request, s *session.Session) {
		var req SelectClientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Formato de requisição inválido", nil)
			return
		}

		if err := s.SelectClient(req.ClientID); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrSessionClosed, err.Error(), nil)
			return
		}

		writeJSONStatus(w, http.StatusAccepted, s.Snapshot())
	})
}

func withSession(next func(w http.ResponseWriter, r *http.Request, s *session.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrSessionClosed, "Sessão não encontrada", nil)
			return
		}
		next(w, r, s)
	}
}
