// Package task — отложенные задачи с отменой: имитация задержки сервера и таймеры UI.
// Каждая задача привязана к контексту; отмена контекста (выход из сессии, закрытие клиента)
// останавливает таймер, и колбэк уже не выполняется.
package task

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Runner планирует задачи на часах clockwork (в тестах FakeClock).
type Runner struct {
	clock clockwork.Clock

	mu     sync.Mutex
	tasks  map[*Task]struct{}
	closed bool
	wg     sync.WaitGroup
}

// Task — запланированный вызов. Cancel идемпотентен.
type Task struct {
	r      *Runner
	cancel context.CancelFunc
	once   sync.Once

	mu    sync.Mutex
	timer clockwork.Timer
	stop  func() bool
}

func NewRunner(clock clockwork.Clock) *Runner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Runner{clock: clock, tasks: make(map[*Task]struct{})}
}

// Clock возвращает часы, на которых работает планировщик.
func (r *Runner) Clock() clockwork.Clock { return r.clock }

// After выполнит fn через d, если ctx к тому моменту не отменён.
// После Close возвращает уже отменённую задачу.
func (r *Runner) After(ctx context.Context, d time.Duration, fn func(ctx context.Context)) *Task {
	tctx, cancel := context.WithCancel(ctx)
	t := &Task{r: r, cancel: cancel}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		cancel()
		t.once.Do(func() {})
		return t
	}
	r.tasks[t] = struct{}{}
	r.wg.Add(1)
	r.mu.Unlock()

	t.mu.Lock()
	t.timer = r.clock.AfterFunc(d, func() {
		defer t.finish()
		if tctx.Err() != nil {
			return
		}
		fn(tctx)
	})
	t.stop = context.AfterFunc(tctx, func() {
		t.mu.Lock()
		timer := t.timer
		t.mu.Unlock()
		if timer.Stop() {
			t.finish()
		}
	})
	t.mu.Unlock()
	return t
}

// Cancel отменяет задачу; если таймер ещё не сработал, колбэк не выполнится.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancel()
}

func (t *Task) finish() {
	t.once.Do(func() {
		t.cancel()
		t.mu.Lock()
		stop := t.stop
		t.mu.Unlock()
		if stop != nil {
			stop()
		}
		t.r.mu.Lock()
		delete(t.r.tasks, t)
		t.r.mu.Unlock()
		t.r.wg.Done()
	})
}

// Pending — число задач, которые ещё не выполнились и не отменены.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.tasks)
}

// Sleep ждёт d или отмены ctx. Возвращает ctx.Err() при отмене.
func (r *Runner) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-r.clock.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close отменяет все задачи и дожидается завершения уже запущенных колбэков.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	all := make([]*Task, 0, len(r.tasks))
	for t := range r.tasks {
		all = append(all, t)
	}
	r.mu.Unlock()

	for _, t := range all {
		t.Cancel()
	}
	r.wg.Wait()
}
