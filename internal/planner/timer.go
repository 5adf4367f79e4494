package planner

import (
	"fmt"
	"time"
)

type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerStopped TimerState = "stopped"
)

const (
	MinDurationHours     = 1
	MaxDurationHours     = 4
	DefaultDurationHours = 2

	MinBreakMinutes     = 30
	MaxBreakMinutes     = 120
	DefaultBreakMinutes = 60
)

type TimerSnapshot struct {
	State            TimerState `json:"state"`
	DurationHours    int        `json:"duration_hours"`
	BreakMinutes     int        `json:"break_interval_minutes"`
	TotalSeconds     int64      `json:"total_seconds"`
	RemainingSeconds int64      `json:"remaining_seconds"`
	Running          bool       `json:"running"`
	Expired          bool       `json:"expired"`
}

// Timer is a study-session countdown. It is not safe for concurrent use;
// callers serialize access per session.
//
// A running timer that reaches zero keeps reporting zero and stays running
// until Stop is called.
type Timer struct {
	now func() time.Time

	durationHours int
	breakMinutes  int
	total         time.Duration

	state     TimerState
	startedAt time.Time
	remaining time.Duration
}

func NewTimer(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	t := &Timer{now: now}
	t.apply(DefaultDurationHours, DefaultBreakMinutes)
	return t
}

func ValidatePlan(durationHours, breakMinutes int) error {
	if durationHours < MinDurationHours || durationHours > MaxDurationHours {
		return fmt.Errorf("%w: duration_hours must be between %d and %d", ErrInvalidPlan, MinDurationHours, MaxDurationHours)
	}
	if breakMinutes < MinBreakMinutes || breakMinutes > MaxBreakMinutes {
		return fmt.Errorf("%w: break_interval_minutes must be between %d and %d", ErrInvalidPlan, MinBreakMinutes, MaxBreakMinutes)
	}
	return nil
}

// Configure sets the session length and resets the timer to idle.
func (t *Timer) Configure(durationHours, breakMinutes int) error {
	if t.state == TimerRunning {
		return ErrTimerRunning
	}
	if err := ValidatePlan(durationHours, breakMinutes); err != nil {
		return err
	}
	t.apply(durationHours, breakMinutes)
	return nil
}

func (t *Timer) apply(durationHours, breakMinutes int) {
	t.durationHours = durationHours
	t.breakMinutes = breakMinutes
	t.total = time.Duration(durationHours)*time.Hour + time.Duration(breakMinutes)*time.Minute
	t.state = TimerIdle
	t.remaining = t.total
}

// Start (re)starts the countdown from the configured total.
func (t *Timer) Start() {
	t.state = TimerRunning
	t.startedAt = t.now()
	t.remaining = t.total
}

// Stop freezes the remaining time at the moment of the call.
func (t *Timer) Stop() {
	if t.state == TimerRunning {
		t.poll()
	}
	t.state = TimerStopped
}

func (t *Timer) poll() {
	remaining := t.total - t.now().Sub(t.startedAt)
	if remaining < 0 {
		remaining = 0
	}
	t.remaining = remaining
}

func (t *Timer) Snapshot() TimerSnapshot {
	if t.state == TimerRunning {
		t.poll()
	}
	remaining := int64(t.remaining / time.Second)
	return TimerSnapshot{
		State:            t.state,
		DurationHours:    t.durationHours,
		BreakMinutes:     t.breakMinutes,
		TotalSeconds:     int64(t.total / time.Second),
		RemainingSeconds: remaining,
		Running:          t.state == TimerRunning,
		Expired:          t.state == TimerRunning && remaining == 0,
	}
}
