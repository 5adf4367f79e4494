package planner

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func TestTimerTotalSeconds(t *testing.T) {
	timer := NewTimer(newFakeClock().Now)
	if err := timer.Configure(1, 30); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	snap := timer.Snapshot()
	if snap.TotalSeconds != 5400 {
		t.Errorf("Expected total 5400, got %d", snap.TotalSeconds)
	}
	if snap.State != TimerIdle || snap.RemainingSeconds != 5400 {
		t.Errorf("Expected idle with full time, got %+v", snap)
	}
}

func TestTimerDefaults(t *testing.T) {
	snap := NewTimer(newFakeClock().Now).Snapshot()
	if snap.DurationHours != 2 || snap.BreakMinutes != 60 || snap.TotalSeconds != 3*3600 {
		t.Errorf("Unexpected defaults: %+v", snap)
	}
}

func TestTimerClampsAtZero(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)
	if err := timer.Configure(1, 30); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	timer.Start()

	clock.Advance(100 * time.Second)
	if got := timer.Snapshot().RemainingSeconds; got != 5300 {
		t.Errorf("Expected 5300 remaining, got %d", got)
	}

	clock.Advance(5400 * time.Second)
	snap := timer.Snapshot()
	if snap.RemainingSeconds != 0 {
		t.Errorf("Expected 0 remaining, got %d", snap.RemainingSeconds)
	}
	if snap.State != TimerRunning || !snap.Expired {
		t.Errorf("Expected running and expired at zero, got %+v", snap)
	}

	clock.Advance(time.Hour)
	if got := timer.Snapshot().RemainingSeconds; got != 0 {
		t.Errorf("Expected remaining to stay 0, got %d", got)
	}
}

func TestTimerStopFreezesRemaining(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)
	if err := timer.Configure(1, 30); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	timer.Start()
	clock.Advance(600 * time.Second)
	timer.Stop()

	first := timer.Snapshot()
	if first.State != TimerStopped || first.RemainingSeconds != 4800 {
		t.Fatalf("Expected stopped at 4800, got %+v", first)
	}

	clock.Advance(time.Hour)
	if got := timer.Snapshot().RemainingSeconds; got != first.RemainingSeconds {
		t.Errorf("Expected remaining to stay %d after stop, got %d", first.RemainingSeconds, got)
	}
}

func TestTimerRestartFromStopped(t *testing.T) {
	clock := newFakeClock()
	timer := NewTimer(clock.Now)
	timer.Start()
	clock.Advance(time.Hour)
	timer.Stop()
	timer.Start()
	if got := timer.Snapshot().RemainingSeconds; got != 3*3600 {
		t.Errorf("Expected restart from full time, got %d", got)
	}
}

func TestTimerConfigureValidation(t *testing.T) {
	tests := []struct {
		name    string
		hours   int
		minutes int
		wantErr error
	}{
		{"minimum", 1, 30, nil},
		{"maximum", 4, 120, nil},
		{"hours too low", 0, 60, ErrInvalidPlan},
		{"hours too high", 5, 60, ErrInvalidPlan},
		{"break too short", 2, 15, ErrInvalidPlan},
		{"break too long", 2, 121, ErrInvalidPlan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTimer(nil).Configure(tt.hours, tt.minutes)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTimerConfigureWhileRunning(t *testing.T) {
	timer := NewTimer(newFakeClock().Now)
	timer.Start()
	if err := timer.Configure(1, 30); !errors.Is(err, ErrTimerRunning) {
		t.Errorf("Expected ErrTimerRunning, got %v", err)
	}
}
