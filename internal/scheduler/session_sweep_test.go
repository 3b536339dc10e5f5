package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/scheduler/mocks"
	"go.uber.org/mock/gomock"
)

func sweepConfig(enabled bool) *config.Config {
	return &config.Config{
		SessionSweep: config.SessionSweep{
			CronSchedule: "*/10 * * * *",
			IdleTimeout:  2 * time.Hour,
			Enabled:      enabled,
		},
	}
}

func TestSessionSweepService_SweepIdleSessions(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockIdleSessionCloser(ctrl)

	sessions.EXPECT().CloseIdle(2 * time.Hour).Return(3)
	sessions.EXPECT().Count().Return(5).AnyTimes()

	service := NewSessionSweepService(sessions, sweepConfig(true))

	closed := service.SweepIdleSessions()

	assert.Equal(t, 3, closed)
	status := service.GetStatus()
	assert.Equal(t, false, status["sweep_running"])
	assert.Equal(t, 3, status["last_sweep_closed"])
	assert.Equal(t, 5, status["open_sessions"])
	assert.Equal(t, "2h0m0s", status["idle_timeout"])
	assert.False(t, status["last_sweep_completed_at"].(time.Time).IsZero())
}

func TestSessionSweepService_SkipsWhenRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockIdleSessionCloser(ctrl)

	service := NewSessionSweepService(sessions, sweepConfig(true))
	service.sweepRunning = true

	assert.Equal(t, -1, service.SweepIdleSessions())
	service.TriggerManualSync()
}

func TestSessionSweepService_TriggerManualSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockIdleSessionCloser(ctrl)

	done := make(chan struct{})
	sessions.EXPECT().CloseIdle(2 * time.Hour).DoAndReturn(func(time.Duration) int {
		close(done)
		return 0
	})
	sessions.EXPECT().Count().Return(0).AnyTimes()

	service := NewSessionSweepService(sessions, sweepConfig(true))
	service.TriggerManualSync()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("varredura manual não executou")
	}

	assert.Eventually(t, func() bool {
		return service.GetStatus()["sweep_running"] == false
	}, time.Second, 5*time.Millisecond)
}

func TestSessionSweepService_StartDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockIdleSessionCloser(ctrl)

	service := NewSessionSweepService(sessions, sweepConfig(false))

	require.NoError(t, service.Start(context.Background()))
	assert.False(t, service.scheduler.IsRunning())
}

func TestSessionSweepService_StartInvalidCron(t *testing.T) {
	ctrl := gomock.NewController(t)
	sessions := mocks.NewMockIdleSessionCloser(ctrl)

	cfg := sweepConfig(true)
	cfg.SessionSweep.CronSchedule = "não é cron"
	service := NewSessionSweepService(sessions, cfg)

	assert.Error(t, service.Start(context.Background()))
}
