// Package presence имитирует канал присутствия: по сигналу «печатает» собеседники чата
// на фиксированное время переводятся в статус typing, затем возвращаются в online.
package presence

import (
	"context"
	"sync"
	"time"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/task"
)

// DefaultDuration — сколько держится статус typing.
const DefaultDuration = 2 * time.Second

// Sink применяет смену статуса к состоянию (Store.dispatch).
type Sink func(userIDs []string, status model.Status)

type Simulator struct {
	runner   *task.Runner
	duration time.Duration
	sink     Sink

	mu      sync.Mutex
	pending map[string]*task.Task // chatID → возврат в online
}

func NewSimulator(runner *task.Runner, duration time.Duration, sink Sink) *Simulator {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Simulator{
		runner:   runner,
		duration: duration,
		sink:     sink,
		pending:  make(map[string]*task.Task),
	}
}

// Typing переводит userIDs чата в typing и планирует возврат в online.
// Повторный сигнал по тому же чату перезапускает таймер.
func (s *Simulator) Typing(ctx context.Context, chatID string, userIDs []string) {
	if len(userIDs) == 0 {
		return
	}
	ids := append([]string(nil), userIDs...)
	s.sink(ids, model.StatusTyping)

	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.pending[chatID]; ok {
		prev.Cancel()
	}
	var t *task.Task
	t = s.runner.After(ctx, s.duration, func(context.Context) {
		s.mu.Lock()
		if s.pending[chatID] == t {
			delete(s.pending, chatID)
		}
		s.mu.Unlock()
		s.sink(ids, model.StatusOnline)
	})
	s.pending[chatID] = t
}

// Stop отменяет все запланированные возвраты (смена сессии).
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.pending {
		t.Cancel()
		delete(s.pending, id)
	}
}
