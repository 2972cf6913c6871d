// Package state — состояние клиента и чистые переходы над ним.
// State не изменяется на месте: Reduce возвращает новое значение, разделяя с прежним
// только нетронутые коллекции. Поэтому снимок можно отдавать представлению без копирования.
package state

import (
	"github.com/messenger/frontend/internal/model"
)

// Session — флаг авторизации, текущий пользователь, загрузка, ошибка.
type Session struct {
	Authenticated bool
	CurrentUser   *model.User
	Loading       bool
	Error         string

	pending int // число незавершённых операций с имитацией задержки
}

type State struct {
	Session      Session
	Users        []model.User               // каталог пользователей
	Chats        []model.Chat               // список чатов, новые в начале
	Messages     map[string][]model.Message // chatID → сообщения по порядку
	ActiveChatID string
}

// Initial — состояние до входа.
func Initial() State {
	return State{Messages: map[string][]model.Message{}}
}

// CurrentUserID возвращает id текущего пользователя или "".
func (s State) CurrentUserID() string {
	if s.Session.CurrentUser == nil {
		return ""
	}
	return s.Session.CurrentUser.ID
}

// ChatIndex возвращает позицию чата в списке или -1.
func (s State) ChatIndex(id string) int {
	for i := range s.Chats {
		if s.Chats[i].ID == id {
			return i
		}
	}
	return -1
}

// Chat возвращает чат по id.
func (s State) Chat(id string) (model.Chat, bool) {
	if i := s.ChatIndex(id); i >= 0 {
		return s.Chats[i], true
	}
	return model.Chat{}, false
}

// ActiveChat возвращает выбранный чат.
func (s State) ActiveChat() (model.Chat, bool) {
	if s.ActiveChatID == "" {
		return model.Chat{}, false
	}
	return s.Chat(s.ActiveChatID)
}

// ChatMessages возвращает сообщения чата (срез только для чтения).
func (s State) ChatMessages(chatID string) []model.Message {
	return s.Messages[chatID]
}
