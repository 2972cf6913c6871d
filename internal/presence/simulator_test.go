package presence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/task"
)

type recorder struct {
	mu     sync.Mutex
	events []model.Status
}

func (r *recorder) sink(ids []string, s model.Status) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []model.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Status(nil), r.events...)
}

func waitEvents(t *testing.T, r *recorder, n int) []model.Status {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ev := r.snapshot(); len(ev) >= n {
			return ev
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("want %d events, got %v", n, r.snapshot())
	return nil
}

func TestTypingRevertsToOnline(t *testing.T) {
	clk := clockwork.NewFakeClock()
	runner := task.NewRunner(clk)
	defer runner.Close()
	rec := &recorder{}
	sim := NewSimulator(runner, 2*time.Second, rec.sink)

	sim.Typing(context.Background(), "c1", []string{"u1"})
	if ev := rec.snapshot(); len(ev) != 1 || ev[0] != model.StatusTyping {
		t.Fatalf("events = %v", ev)
	}
	clk.Advance(2 * time.Second)
	ev := waitEvents(t, rec, 2)
	if ev[1] != model.StatusOnline {
		t.Fatalf("events = %v", ev)
	}
}

func TestRepeatedSignalRestartsTimer(t *testing.T) {
	clk := clockwork.NewFakeClock()
	runner := task.NewRunner(clk)
	defer runner.Close()
	rec := &recorder{}
	sim := NewSimulator(runner, 2*time.Second, rec.sink)

	sim.Typing(context.Background(), "c1", []string{"u1"})
	clk.Advance(1500 * time.Millisecond)
	sim.Typing(context.Background(), "c1", []string{"u1"})
	clk.Advance(1500 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	for _, s := range rec.snapshot() {
		if s == model.StatusOnline {
			t.Fatal("first revert must have been cancelled by the second signal")
		}
	}
	clk.Advance(500 * time.Millisecond)
	ev := waitEvents(t, rec, 3)
	if ev[2] != model.StatusOnline {
		t.Fatalf("events = %v", ev)
	}
}

func TestStopCancelsRevert(t *testing.T) {
	clk := clockwork.NewFakeClock()
	runner := task.NewRunner(clk)
	defer runner.Close()
	rec := &recorder{}
	sim := NewSimulator(runner, time.Second, rec.sink)

	sim.Typing(context.Background(), "c1", []string{"u1", "u2"})
	sim.Stop()
	clk.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	if ev := rec.snapshot(); len(ev) != 1 {
		t.Fatalf("events after Stop = %v", ev)
	}
}

func TestNoRecipientsIsNoop(t *testing.T) {
	runner := task.NewRunner(clockwork.NewFakeClock())
	defer runner.Close()
	rec := &recorder{}
	NewSimulator(runner, 0, rec.sink).Typing(context.Background(), "c1", nil)
	if len(rec.snapshot()) != 0 {
		t.Fatal("no recipients, no events")
	}
	if runner.Pending() != 0 {
		t.Fatal("no task must be scheduled")
	}
}
