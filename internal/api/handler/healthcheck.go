package handler

import (
	"net/http"
	"time"
)

// SessionCounter expõe quantas sessões do painel estão abertas
type SessionCounter interface {
	Count() int
}

// HealthcheckHandler não consulta o document store; só confirma que o processo responde
func HealthcheckHandler(sessions SessionCounter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		}
		if sessions != nil {
			payload["open_sessions"] = sessions.Count()
		}
		writeJSON(w, payload)
	})
}
