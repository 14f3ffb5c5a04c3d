package sequence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"leadflow_backend/platform/logger"
)

type sendRecorder struct {
	mu    sync.Mutex
	sends []string
}

func (r *sendRecorder) job(step string, err error) Job {
	return Job{
		Channel:   "email",
		Recipient: "lead@example.com",
		Step:      step,
		Run: func(ctx context.Context) error {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.sends = append(r.sends, step)
			return err
		},
	}
}

func (r *sendRecorder) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sends...)
}

func newTestScheduler(clock Clock) *Scheduler {
	return New(clock, logger.New("development"), 10*time.Second, 20*time.Second)
}

func TestSchedule_CumulativeOffsets(t *testing.T) {
	clock := NewManualClock(time.Now())
	s := newTestScheduler(clock)
	rec := &sendRecorder{}

	// Explicit delays 5s, 3s, 7s: steps fire at 5s, 8s, and 15s.
	summary := s.Schedule(
		[]Job{rec.job("step-1", nil), rec.job("step-2", nil), rec.job("step-3", nil)},
		Options{Delays: []time.Duration{5 * time.Second, 3 * time.Second, 7 * time.Second}},
	)

	if summary.Scheduled != 3 {
		t.Fatalf("expected 3 scheduled, got %d", summary.Scheduled)
	}
	if summary.TotalDelay != 15*time.Second {
		t.Fatalf("expected total delay 15s, got %s", summary.TotalDelay)
	}
	if got := rec.recorded(); len(got) != 0 {
		t.Fatalf("expected no sends before clock advances, got %v", got)
	}

	clock.Advance(5 * time.Second)
	if got := rec.recorded(); len(got) != 1 || got[0] != "step-1" {
		t.Fatalf("expected only step-1 at t=5s, got %v", got)
	}

	clock.Advance(2 * time.Second)
	if got := rec.recorded(); len(got) != 1 {
		t.Fatalf("expected step-2 not yet fired at t=7s, got %v", got)
	}

	clock.Advance(1 * time.Second)
	if got := rec.recorded(); len(got) != 2 || got[1] != "step-2" {
		t.Fatalf("expected step-2 at t=8s, got %v", got)
	}

	clock.Advance(7 * time.Second)
	if got := rec.recorded(); len(got) != 3 || got[2] != "step-3" {
		t.Fatalf("expected step-3 at t=15s, got %v", got)
	}
}

func TestSchedule_RandomDelaysStayInWindow(t *testing.T) {
	clock := NewManualClock(time.Now())
	s := newTestScheduler(clock)
	rec := &sendRecorder{}

	s.Schedule([]Job{rec.job("step-1", nil), rec.job("step-2", nil)}, Options{})

	// Nothing may fire before the earliest possible cumulative offset.
	clock.Advance(9 * time.Second)
	if got := rec.recorded(); len(got) != 0 {
		t.Fatalf("expected no sends before min delay, got %v", got)
	}

	// Both must have fired by the latest possible cumulative offset (20+20).
	clock.Advance(31 * time.Second)
	if got := rec.recorded(); len(got) != 2 {
		t.Fatalf("expected both steps sent by max cumulative delay, got %v", got)
	}
	if got := rec.recorded(); got[0] != "step-1" || got[1] != "step-2" {
		t.Fatalf("expected steps in order, got %v", got)
	}
}

func TestSchedule_FailedStepDoesNotBlockLaterSteps(t *testing.T) {
	clock := NewManualClock(time.Now())
	s := newTestScheduler(clock)
	rec := &sendRecorder{}

	s.Schedule(
		[]Job{
			rec.job("step-1", errors.New("provider down")),
			rec.job("step-2", nil),
		},
		Options{Delays: []time.Duration{time.Second, time.Second}},
	)

	clock.Advance(2 * time.Second)
	got := rec.recorded()
	if len(got) != 2 {
		t.Fatalf("expected both steps attempted despite step-1 failure, got %v", got)
	}
}

func TestSchedule_SummaryBeforeAnySend(t *testing.T) {
	clock := NewManualClock(time.Now())
	s := newTestScheduler(clock)
	rec := &sendRecorder{}

	summary := s.Schedule([]Job{rec.job("step-1", nil)}, Options{Delays: []time.Duration{time.Minute}})

	if summary.Scheduled != 1 {
		t.Fatalf("expected summary available immediately, got %+v", summary)
	}
	if clock.PendingCount() != 1 {
		t.Fatalf("expected 1 pending timer, got %d", clock.PendingCount())
	}
	if got := rec.recorded(); len(got) != 0 {
		t.Fatalf("expected zero sends at schedule time, got %v", got)
	}
}
