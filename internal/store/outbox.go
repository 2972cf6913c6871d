package store

import (
	"context"

	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
)

const outboxSize = 64

// syncJob — одно изменение для Options.Chats.
type syncJob struct {
	ctx   context.Context
	epoch uint64
	name  string
	run   func(ctx context.Context) error
}

func (s *Store) startOutbox() {
	s.outbox = make(chan syncJob, outboxSize)
	s.outboxStop = make(chan struct{})
	s.outboxDone = make(chan struct{})
	s.chatIDs = make(map[string]string)
	go s.drainOutbox()
}

func (s *Store) stopOutbox() {
	if s.outbox == nil {
		return
	}
	close(s.outboxStop)
	<-s.outboxDone
}

// drainOutbox выполняет задания строго по очереди: сообщение в новый чат
// уходит после того, как сервер создал чат.
func (s *Store) drainOutbox() {
	defer close(s.outboxDone)
	for {
		select {
		case <-s.outboxStop:
			return
		case job := <-s.outbox:
			if job.ctx.Err() != nil {
				continue
			}
			err := job.run(job.ctx)
			if err == nil || job.ctx.Err() != nil {
				continue
			}
			logger.Errorf("store sync %s: %v", job.name, err)
			s.apply(job.epoch, state.SyncFailed{Err: model.UserMessage(err)})
		}
	}
}

// enqueue ставит задание в очередь текущей сессии. Без Options.Chats ничего не делает.
func (s *Store) enqueue(name string, run func(ctx context.Context) error) {
	if s.outbox == nil {
		return
	}
	ctx, epoch := s.session()
	select {
	case s.outbox <- syncJob{ctx: ctx, epoch: epoch, name: name, run: run}:
	case <-ctx.Done():
	}
}

// remoteChatID переводит локальный id созданного в сессии чата в серверный.
func (s *Store) remoteChatID(chatID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.chatIDs[chatID]; ok {
		return id
	}
	return chatID
}

func (s *Store) rememberChatID(localID, remoteID string) {
	s.mu.Lock()
	s.chatIDs[localID] = remoteID
	s.mu.Unlock()
}
