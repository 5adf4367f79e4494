package service

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// ReminderSweeper checks reminders of every logged-in user on a fixed interval,
// so reminders fire even when the user sends no requests.
type ReminderSweeper struct {
	sessions *SessionStore
	planner  *PlannerService
	interval time.Duration
	logger   *log.Logger
}

func NewReminderSweeper(sessions *SessionStore, planner *PlannerService, interval time.Duration, logger *log.Logger) *ReminderSweeper {
	return &ReminderSweeper{
		sessions: sessions,
		planner:  planner,
		interval: interval,
		logger:   logger.With("component", "sweeper"),
	}
}

func (s *ReminderSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

func (s *ReminderSweeper) Sweep(ctx context.Context) {
	if n := s.sessions.EvictExpired(); n > 0 {
		s.logger.Debug("evicted expired sessions", "count", n)
	}

	for _, ws := range s.sessions.Workspaces() {
		ws.Lock()
		fired, err := s.planner.CheckReminders(ctx, ws)
		ws.Unlock()
		if err != nil {
			s.logger.Warn("reminder check failed", "user", ws.UserID, "err", err)
			continue
		}
		if len(fired) > 0 {
			s.logger.Info("reminders fired", "user", ws.UserID, "count", len(fired))
		}
	}
}
