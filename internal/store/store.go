// Package store — единственный владелец состояния клиента.
// Все переходы идут через state.Reduce под одним мьютексом в порядке поступления;
// отложенные переходы (имитация сервера, квитанции, присутствие) выполняются на task.Runner
// и привязаны к контексту сессии, который отменяется при выходе и закрытии.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/presence"
	"github.com/messenger/frontend/internal/state"
	"github.com/messenger/frontend/internal/task"
	"github.com/messenger/frontend/internal/typing"
)

// Значения по умолчанию для задержек имитации.
const (
	DefaultSimulatedDelay   = 800 * time.Millisecond
	DefaultReadReceiptDelay = 2 * time.Second
)

var ErrClosed = errors.New("store closed")

type Options struct {
	Clock  clockwork.Clock
	Auth   Authenticator   // по умолчанию MockAuthenticator с паролем "password"
	Loader WorkspaceLoader // по умолчанию демо-данные
	// Backend — сервер для операций админ-панели и профиля; nil — локальная имитация.
	Backend Backend
	// Chats — сервер для чатов и сообщений; nil — только локальное состояние.
	Chats ChatBackend

	SimulatedDelay   time.Duration
	ReadReceiptDelay time.Duration
	TypingWindow     time.Duration
	TypingDuration   time.Duration
}

type Store struct {
	opts     Options
	clock    clockwork.Clock
	runner   *task.Runner
	presence *presence.Simulator
	typing   *typing.Debouncer

	mu     sync.Mutex
	st     state.State
	epoch  uint64 // растёт при каждом выходе; колбэки прошлой сессии отбрасываются
	ctx    context.Context
	cancel context.CancelFunc
	subs   map[chan struct{}]struct{}
	closed bool

	outbox     chan syncJob
	outboxStop chan struct{}
	outboxDone chan struct{}
	chatIDs    map[string]string // локальный id созданного чата → серверный
}

func New(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Auth == nil {
		opts.Auth = NewMockAuthenticator("", nil)
	}
	if opts.Loader == nil {
		opts.Loader = SeedLoader{Clock: opts.Clock}
	}
	if opts.SimulatedDelay < 0 {
		opts.SimulatedDelay = 0
	}
	if opts.ReadReceiptDelay <= 0 {
		opts.ReadReceiptDelay = DefaultReadReceiptDelay
	}

	s := &Store{
		opts:   opts,
		clock:  opts.Clock,
		runner: task.NewRunner(opts.Clock),
		typing: typing.NewDebouncer(opts.Clock, opts.TypingWindow),
		st:     state.Initial(),
		subs:   make(map[chan struct{}]struct{}),
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.presence = presence.NewSimulator(s.runner, opts.TypingDuration, s.presenceSink)
	if opts.Chats != nil {
		s.startOutbox()
	}
	return s
}

// Snapshot возвращает текущее состояние. Значение неизменяемо.
func (s *Store) Snapshot() state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st
}

// Subscribe возвращает канал уведомлений о переходах и функцию отписки.
// Уведомления схлопываются: подписчик читает свежий Snapshot.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if _, ok := s.subs[ch]; ok {
				delete(s.subs, ch)
				close(ch)
			}
			s.mu.Unlock()
		})
	}
}

// Close отменяет все отложенные задачи и закрывает подписки. Повторный вызов безопасен.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.epoch++
	s.cancel()
	for ch := range s.subs {
		close(ch)
	}
	s.subs = nil
	s.mu.Unlock()

	s.presence.Stop()
	s.runner.Close()
	s.stopOutbox()
}

// Pending — число запланированных отложенных переходов.
func (s *Store) Pending() int {
	return s.runner.Pending()
}

// session возвращает контекст и эпоху текущей сессии.
func (s *Store) session() (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx, s.epoch
}

// apply применяет действие, если эпоха не сменилась. Вызывать без s.mu.
func (s *Store) apply(epoch uint64, a state.Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || epoch != s.epoch {
		return false
	}
	s.applyLocked(a)
	return true
}

func (s *Store) applyLocked(a state.Action) {
	s.st = state.Reduce(s.st, a)
	for ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// dispatch применяет действие в текущей сессии.
func (s *Store) dispatch(a state.Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.applyLocked(a)
}

func (s *Store) presenceSink(userIDs []string, status model.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || !s.st.Session.Authenticated {
		return
	}
	s.applyLocked(state.PresenceChanged{UserIDs: userIDs, Status: status, At: s.clock.Now()})
}
