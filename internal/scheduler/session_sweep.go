package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
)

//go:generate mockgen -source=session_sweep.go -destination=mocks/mock_session_sweep.go -package=mocks

// IdleSessionCloser é o lado do gerenciador de sessões usado pela varredura
type IdleSessionCloser interface {
	CloseIdle(maxIdle time.Duration) int
	Count() int
}

// SessionSweepConfig representa a configuração da varredura de sessões inativas
type SessionSweepConfig struct {
	CronSchedule string
	IdleTimeout  time.Duration
	SweepEnabled bool
}

// SessionSweepService encerra periodicamente as sessões do painel sem atividade
type SessionSweepService struct {
	scheduler            *gocron.Scheduler
	config               SessionSweepConfig
	sessions             IdleSessionCloser
	sweepRunning         bool
	sweepMutex           sync.Mutex
	lastSweepStartedAt   time.Time
	lastSweepCompletedAt time.Time
	lastSweepClosed      int
}

func NewSessionSweepService(sessions IdleSessionCloser, appConfig *config.Config) *SessionSweepService {
	sweepConfig := SessionSweepConfig{
		CronSchedule: appConfig.SessionSweep.CronSchedule,
		IdleTimeout:  appConfig.SessionSweep.IdleTimeout,
		SweepEnabled: appConfig.SessionSweep.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": sweepConfig.CronSchedule,
		"idle_timeout":  sweepConfig.IdleTimeout.String(),
		"sweep_enabled": sweepConfig.SweepEnabled,
	}).Info("Configuração da varredura de sessões carregada")

	return &SessionSweepService{
		scheduler: gocron.NewScheduler(time.Local),
		config:    sweepConfig,
		sessions:  sessions,
	}
}

// Start agenda a varredura e para o agendador quando ctx for cancelado
func (s *SessionSweepService) Start(ctx context.Context) error {
	if !s.config.SweepEnabled {
		logrus.Info("Varredura de sessões desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador da varredura de sessões")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.SweepIdleSessions()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar varredura de sessões: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador da varredura de sessões")
		s.scheduler.Stop()
	}()

	return nil
}

// SweepIdleSessions encerra as sessões inativas há mais de IdleTimeout.
// Retorna -1 quando outra varredura já está em andamento.
func (s *SessionSweepService) SweepIdleSessions() int {
	s.sweepMutex.Lock()
	if s.sweepRunning {
		s.sweepMutex.Unlock()
		logrus.Info("Varredura de sessões já em andamento, ignorando")
		return -1
	}
	s.sweepRunning = true
	s.lastSweepStartedAt = time.Now()
	s.sweepMutex.Unlock()

	closed := s.sessions.CloseIdle(s.config.IdleTimeout)
	open := s.sessions.Count()

	s.sweepMutex.Lock()
	s.sweepRunning = false
	s.lastSweepCompletedAt = time.Now()
	s.lastSweepClosed = closed
	duration := s.lastSweepCompletedAt.Sub(s.lastSweepStartedAt)
	s.sweepMutex.Unlock()

	logrus.WithFields(logrus.Fields{
		"closed_sessions": closed,
		"open_sessions":   open,
		"duration":        duration.String(),
	}).Info("Varredura de sessões concluída")

	return closed
}

// TriggerManualSync dispara uma varredura fora do agendamento
func (s *SessionSweepService) TriggerManualSync() {
	s.sweepMutex.Lock()
	if s.sweepRunning {
		s.sweepMutex.Unlock()
		logrus.Info("Varredura de sessões já em andamento, ignorando solicitação manual")
		return
	}
	s.sweepMutex.Unlock()

	logrus.Info("Iniciando varredura manual de sessões")
	go s.SweepIdleSessions()
}

// GetStatus retorna o status atual da varredura
func (s *SessionSweepService) GetStatus() map[string]any {
	s.sweepMutex.Lock()
	defer s.sweepMutex.Unlock()

	return map[string]any{
		"sweep_running":           s.sweepRunning,
		"sweep_cron":              s.config.CronSchedule,
		"sweep_enabled":           s.config.SweepEnabled,
		"idle_timeout":            s.config.IdleTimeout.String(),
		"open_sessions":           s.sessions.Count(),
		"last_sweep_closed":       s.lastSweepClosed,
		"last_sweep_started_at":   s.lastSweepStartedAt,
		"last_sweep_completed_at": s.lastSweepCompletedAt,
	}
}
