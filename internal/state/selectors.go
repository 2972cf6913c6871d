package state

import (
	"strings"

	"github.com/messenger/frontend/internal/model"
)

// FilterChats — поиск по названию без учёта регистра; пустой запрос возвращает все чаты.
func FilterChats(chats []model.Chat, term string) []model.Chat {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return chats
	}
	out := make([]model.Chat, 0, len(chats))
	for _, c := range chats {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out
}

// AddableUsers — пользователи каталога, которых можно добавить в чат: не текущий и не участник.
func AddableUsers(s State, chat model.Chat) []model.User {
	self := s.CurrentUserID()
	out := make([]model.User, 0, len(s.Users))
	for _, u := range s.Users {
		if u.ID == self || chat.HasMember(u.ID) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// CanManageChat — состав группы может менять администратор.
// Проверка только для интерфейса; мутации состояния её не требуют.
func CanManageChat(s State, chat model.Chat) bool {
	return chat.IsGroup && s.Session.CurrentUser != nil && s.Session.CurrentUser.IsAdmin
}

// ShowSender — в группах у чужих сообщений показывается автор.
func ShowSender(chat model.Chat, m model.Message) bool {
	return chat.IsGroup && !m.IsOwn
}

// Contacts — каталог без текущего пользователя (выбор участников нового чата).
func Contacts(s State) []model.User {
	self := s.CurrentUserID()
	out := make([]model.User, 0, len(s.Users))
	for _, u := range s.Users {
		if u.ID != self {
			out = append(out, u)
		}
	}
	return out
}

// TotalUnread — сумма непрочитанных по всем чатам.
func TotalUnread(s State) int {
	n := 0
	for _, c := range s.Chats {
		n += c.UnreadCount
	}
	return n
}
