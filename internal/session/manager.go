package session

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/utils"
)

// Manager guarda as sessões abertas, uma por login
type Manager struct {
	deps   Dependencies
	logger log.Logger
	now    func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(deps Dependencies) *Manager {
	return &Manager{
		deps:     deps,
		logger:   log.L.WithComponent("session-manager"),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open cria a sessão com o período padrão e dispara a carga inicial das views
func (m *Manager) Open(userID string) (string, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return "", errors.Wrap(err, "erro ao gerar id da sessão")
	}

	s := newSession(id, userID, m.deps, m.now())

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.WithFields(log.Fields{"session_id": id, "user_id": userID}).Info("Sessão aberta")
	s.Refresh()

	return id, nil
}

// Get retorna a sessão aberta e registra atividade
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, false
	}
	s.Touch(m.now())
	return s, true
}

func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return false
	}

	s.Close()
	m.logger.WithField("session_id", id).Info("Sessão encerrada")
	return true
}

// CloseIdle encerra as sessões sem atividade há mais de maxIdle e retorna quantas foram fechadas
func (m *Manager) CloseIdle(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	idle := make([]*Session, 0)
	for id, s := range m.sessions {
		if s.LastActivity().Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}

	if len(idle) > 0 {
		m.logger.Infof("%d sessões inativas encerradas", len(idle))
	}
	return len(idle)
}

// CloseAll encerra todas as sessões e aguarda as consultas em andamento
func (m *Manager) CloseAll() {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for id, s := range m.sessions {
		all = append(all, s)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
	for _, s := range all {
		s.Wait()
	}
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
