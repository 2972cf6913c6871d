package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestAfterFiresWhenClockAdvances(t *testing.T) {
	clk := clockwork.NewFakeClock()
	r := NewRunner(clk)
	defer r.Close()

	var fired atomic.Int32
	r.After(context.Background(), time.Second, func(context.Context) { fired.Add(1) })
	if r.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", r.Pending())
	}

	clk.Advance(999 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("fired before the delay elapsed")
	}

	clk.Advance(time.Millisecond)
	eventually(t, func() bool { return fired.Load() == 1 })
	eventually(t, func() bool { return r.Pending() == 0 })
}

func TestCancelPreventsCallback(t *testing.T) {
	clk := clockwork.NewFakeClock()
	r := NewRunner(clk)
	defer r.Close()

	var fired atomic.Int32
	task := r.After(context.Background(), time.Second, func(context.Context) { fired.Add(1) })
	task.Cancel()
	task.Cancel()
	eventually(t, func() bool { return r.Pending() == 0 })

	clk.Advance(2 * time.Second)
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("cancelled task must not fire")
	}
}

func TestParentContextCancelStopsTask(t *testing.T) {
	clk := clockwork.NewFakeClock()
	r := NewRunner(clk)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var fired atomic.Int32
	r.After(ctx, time.Second, func(context.Context) { fired.Add(1) })
	cancel()
	eventually(t, func() bool { return r.Pending() == 0 })

	clk.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("task of a cancelled session must not fire")
	}
}

func TestCloseCancelsEverything(t *testing.T) {
	clk := clockwork.NewFakeClock()
	r := NewRunner(clk)

	var fired atomic.Int32
	for i := 0; i < 5; i++ {
		r.After(context.Background(), time.Duration(i+1)*time.Second, func(context.Context) { fired.Add(1) })
	}
	r.Close()
	if r.Pending() != 0 {
		t.Fatalf("pending after close = %d", r.Pending())
	}
	clk.Advance(time.Minute)
	time.Sleep(20 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("nothing must fire after Close")
	}

	late := r.After(context.Background(), 0, func(context.Context) { fired.Add(1) })
	late.Cancel()
	if r.Pending() != 0 {
		t.Fatal("runner must not accept tasks after Close")
	}
}

func TestSleep(t *testing.T) {
	clk := clockwork.NewFakeClock()
	r := NewRunner(clk)
	defer r.Close()

	done := make(chan error, 1)
	go func() { done <- r.Sleep(context.Background(), 800*time.Millisecond) }()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := clk.BlockUntilContext(ctx, 1); err != nil {
		t.Fatal(err)
	}
	clk.Advance(800 * time.Millisecond)
	if err := <-done; err != nil {
		t.Fatalf("Sleep = %v", err)
	}

	cctx, ccancel := context.WithCancel(context.Background())
	ccancel()
	if err := r.Sleep(cctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("Sleep on cancelled ctx = %v", err)
	}
}
