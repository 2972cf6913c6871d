package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/messenger/frontend/internal/form"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
)

// SelectChat делает чат активным и помечает прочитанными его входящие сообщения.
// Пустой id снимает выбор.
func (s *Store) SelectChat(chatID string) {
	s.mu.Lock()
	if s.closed || !s.st.Session.Authenticated {
		s.mu.Unlock()
		return
	}
	lastUnread := lastUnreadIncoming(s.st.ChatMessages(chatID))
	s.applyLocked(state.ChatSelected{ChatID: chatID})
	s.mu.Unlock()

	if lastUnread != "" {
		s.enqueue("MarkAsRead", func(ctx context.Context) error {
			return s.opts.Chats.MarkAsRead(ctx, s.remoteChatID(chatID), lastUnread)
		})
	}
}

// lastUnreadIncoming — id последнего непрочитанного входящего сообщения;
// сервер отмечает прочитанными его и все более ранние.
func lastUnreadIncoming(msgs []model.Message) string {
	for i := len(msgs) - 1; i >= 0; i-- {
		if !msgs[i].IsOwn && !msgs[i].IsRead {
			return msgs[i].ID
		}
	}
	return ""
}

// SendMessage добавляет собственное сообщение в активный чат и через ReadReceiptDelay
// помечает переписку прочитанной. Ничего не делает без активного чата, для чужого чата
// и для пустого текста. Возвращает, было ли сообщение добавлено.
func (s *Store) SendMessage(chatID, text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	s.mu.Lock()
	if s.closed || s.st.ActiveChatID == "" || s.st.ActiveChatID != chatID || s.st.Session.CurrentUser == nil {
		s.mu.Unlock()
		return false
	}
	me := *s.st.Session.CurrentUser
	ctx, epoch := s.ctx, s.epoch
	s.applyLocked(state.MessageSent{Message: model.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Text:      text,
		Sender:    model.SenderOf(me),
		Timestamp: s.clock.Now(),
		IsOwn:     true,
	}})
	s.mu.Unlock()

	s.enqueue("SendMessage", func(ctx context.Context) error {
		_, err := s.opts.Chats.SendMessage(ctx, s.remoteChatID(chatID), text)
		return err
	})
	s.runner.After(ctx, s.opts.ReadReceiptDelay, func(context.Context) {
		s.apply(epoch, state.ChatRead{ChatID: chatID})
	})
	return true
}

// ComposerInput вызывается на каждое изменение поля ввода активного чата.
// Не чаще раза в окно отправляет сигнал «печатает», и собеседники чата
// на время переходят в typing. Возвращает, был ли отправлен сигнал.
func (s *Store) ComposerInput(text string) bool {
	s.mu.Lock()
	chat, ok := s.st.ActiveChat()
	self := s.st.CurrentUserID()
	ctx, closed := s.ctx, s.closed
	s.mu.Unlock()
	if !ok || closed {
		return false
	}
	if !s.typing.Input(text) {
		return false
	}
	s.presence.Typing(ctx, chat.ID, chat.MemberIDs(self))
	return true
}

// CreateChat создаёт чат с выбранными пользователями каталога и делает его активным.
// Больше одного собеседника: группа. Состав чата ровно выбранные пользователи.
func (s *Store) CreateChat(name string, userIDs []string) (string, error) {
	if err := form.ValidateNewChat(name, userIDs); err != nil {
		return "", err
	}
	s.mu.Lock()
	if s.closed || s.st.Session.CurrentUser == nil {
		s.mu.Unlock()
		return "", model.ErrNotAuthenticated
	}

	members := make([]model.User, 0, len(userIDs))
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if seen[id] || id == s.st.CurrentUserID() {
			continue
		}
		u, ok := model.FindUser(s.st.Users, id)
		if !ok {
			s.mu.Unlock()
			return "", fmt.Errorf("store.CreateChat: user %s: %w", id, model.ErrNotFound)
		}
		seen[id] = true
		members = append(members, u)
	}
	if len(members) == 0 {
		s.mu.Unlock()
		return "", model.Invalid("users", form.MsgChatUsersRequired)
	}

	chat := model.Chat{
		ID:      uuid.NewString(),
		Name:    strings.TrimSpace(name),
		IsGroup: len(members) > 1,
		Users:   members,
	}
	if !chat.IsGroup {
		chat.Avatar = members[0].Avatar
	}
	s.applyLocked(state.ChatCreated{Chat: chat})
	s.mu.Unlock()

	ids := make([]string, len(members))
	for i, u := range members {
		ids[i] = u.ID
	}
	s.enqueue("CreateChat", func(ctx context.Context) error {
		created, err := s.opts.Chats.CreateChat(ctx, chat.Name, ids)
		if err != nil {
			return err
		}
		s.rememberChatID(chat.ID, created.ID)
		return nil
	})
	return chat.ID, nil
}

// DeleteChat убирает активный чат из списка вместе с сообщениями и снимает выбор.
func (s *Store) DeleteChat() bool {
	return s.removeActive()
}

// LeaveChatGroup — выход из активного чата; для клиента совпадает с удалением.
func (s *Store) LeaveChatGroup() bool {
	return s.removeActive()
}

func (s *Store) removeActive() bool {
	s.mu.Lock()
	chatID := s.st.ActiveChatID
	if s.closed || chatID == "" {
		s.mu.Unlock()
		return false
	}
	s.applyLocked(state.ChatRemoved{ChatID: chatID})
	s.mu.Unlock()

	s.enqueue("DeleteChat", func(ctx context.Context) error {
		return s.opts.Chats.DeleteChat(ctx, s.remoteChatID(chatID))
	})
	return true
}

// AddUserToChat добавляет пользователя каталога в активную группу. Права не проверяются.
// У личного чата собеседник всегда один, поэтому его состав не меняется.
func (s *Store) AddUserToChat(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.activeGroupLocked("store.AddUserToChat"); err != nil {
		return err
	}
	u, ok := model.FindUser(s.st.Users, userID)
	if !ok {
		return fmt.Errorf("store.AddUserToChat: user %s: %w", userID, model.ErrNotFound)
	}
	s.applyLocked(state.MemberAdded{ChatID: s.st.ActiveChatID, User: u})
	return nil
}

// RemoveUserFromChat убирает участника из активной группы. Права не проверяются.
func (s *Store) RemoveUserFromChat(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.activeGroupLocked("store.RemoveUserFromChat"); err != nil {
		return err
	}
	s.applyLocked(state.MemberRemoved{ChatID: s.st.ActiveChatID, UserID: userID})
	return nil
}

func (s *Store) activeGroupLocked(op string) error {
	chat, ok := s.st.ActiveChat()
	if s.closed || !ok {
		return fmt.Errorf("%s: active chat: %w", op, model.ErrNotFound)
	}
	if !chat.IsGroup {
		return model.Invalid("chat", form.MsgDirectChatMembers)
	}
	return nil
}
