package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/messenger/frontend/internal/logger"
)

type MessageRecord struct {
	ID        string
	ChatID    string
	SenderID  string
	Text      string
	CreatedAt time.Time
	IsRead    bool
}

// MessageRepository хранит сообщения по чатам в порядке отправки.
type MessageRepository struct {
	mu     sync.RWMutex
	byChat map[string][]MessageRecord
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{byChat: make(map[string][]MessageRecord)}
}

func (r *MessageRepository) Create(ctx context.Context, m *MessageRecord) error {
	defer logger.DeferLogDuration("message.Create", time.Now())()
	if m.ChatID == "" {
		return fmt.Errorf("msgRepo.Create: empty chat id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byChat[m.ChatID] = append(r.byChat[m.ChatID], *m)
	return nil
}

func (r *MessageRepository) GetByChatID(ctx context.Context, chatID string) ([]MessageRecord, error) {
	defer logger.DeferLogDuration("message.GetByChatID", time.Now())()
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]MessageRecord(nil), r.byChat[chatID]...), nil
}

// Last возвращает последнее сообщение чата.
func (r *MessageRepository) Last(ctx context.Context, chatID string) (*MessageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.byChat[chatID]
	if len(msgs) == 0 {
		return nil, ErrNotFound
	}
	m := msgs[len(msgs)-1]
	return &m, nil
}

// CountUnread — входящие для userID непрочитанные сообщения чата.
func (r *MessageRepository) CountUnread(ctx context.Context, chatID, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, m := range r.byChat[chatID] {
		if !m.IsRead && m.SenderID != userID {
			n++
		}
	}
	return n, nil
}

// MarkAsRead помечает прочитанным сообщение messageID и все предыдущие сообщения чата,
// кроме отправленных самим читателем.
func (r *MessageRepository) MarkAsRead(ctx context.Context, chatID, messageID, readerID string) error {
	defer logger.DeferLogDuration("message.MarkAsRead", time.Now())()
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.byChat[chatID]
	idx := -1
	for i := range msgs {
		if msgs[i].ID == messageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	for i := 0; i <= idx; i++ {
		if msgs[i].SenderID != readerID {
			msgs[i].IsRead = true
		}
	}
	return nil
}

func (r *MessageRepository) DeleteByChatID(ctx context.Context, chatID string) error {
	defer logger.DeferLogDuration("message.DeleteByChatID", time.Now())()
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byChat, chatID)
	return nil
}
