package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/messenger/frontend/internal/logger"
)

// ChatRecord — чат на сервере: состав хранится списком id.
type ChatRecord struct {
	ID        string
	Name      string
	IsGroup   bool
	MemberIDs []string
	CreatedBy string
	CreatedAt time.Time
}

// HasMember проверяет членство пользователя.
func (c *ChatRecord) HasMember(userID string) bool {
	for _, id := range c.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type ChatRepository struct {
	mu    sync.RWMutex
	chats map[string]ChatRecord
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{chats: make(map[string]ChatRecord)}
}

func (r *ChatRepository) Create(ctx context.Context, c *ChatRecord) error {
	defer logger.DeferLogDuration("chat.Create", time.Now())()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[c.ID]; ok {
		return fmt.Errorf("chatRepo.Create: duplicate id %s", c.ID)
	}
	rec := *c
	rec.MemberIDs = append([]string(nil), c.MemberIDs...)
	r.chats[c.ID] = rec
	return nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (*ChatRecord, error) {
	defer logger.DeferLogDuration("chat.GetByID", time.Now())()
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.chats[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.MemberIDs = append([]string(nil), c.MemberIDs...)
	return &c, nil
}

// GetUserChats возвращает чаты пользователя, новые первыми.
func (r *ChatRepository) GetUserChats(ctx context.Context, userID string) ([]ChatRecord, error) {
	defer logger.DeferLogDuration("chat.GetUserChats", time.Now())()
	r.mu.RLock()
	out := make([]ChatRecord, 0)
	for _, c := range r.chats {
		if c.HasMember(userID) {
			c.MemberIDs = append([]string(nil), c.MemberIDs...)
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ChatRepository) Delete(ctx context.Context, id string) error {
	defer logger.DeferLogDuration("chat.Delete", time.Now())()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[id]; !ok {
		return ErrNotFound
	}
	delete(r.chats, id)
	return nil
}

// RemoveUser убирает пользователя из всех чатов (удаление учётной записи).
func (r *ChatRepository) RemoveUser(ctx context.Context, userID string) error {
	defer logger.DeferLogDuration("chat.RemoveUser", time.Now())()
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, c := range r.chats {
		if !c.HasMember(userID) {
			continue
		}
		kept := make([]string, 0, len(c.MemberIDs))
		for _, m := range c.MemberIDs {
			if m != userID {
				kept = append(kept, m)
			}
		}
		c.MemberIDs = kept
		r.chats[id] = c
	}
	return nil
}
