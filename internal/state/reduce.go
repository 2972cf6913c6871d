package state

import (
	"github.com/messenger/frontend/internal/model"
)

// Reduce применяет действие и возвращает новое состояние. s не изменяется.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case OperationStarted:
		s.Session.pending++
		s.Session.Loading = true
		s.Session.Error = ""
	case OperationFinished:
		if s.Session.pending > 0 {
			s.Session.pending--
		}
		s.Session.Loading = s.Session.pending > 0
		if a.Err != "" {
			s.Session.Error = a.Err
		}
	case SyncFailed:
		s.Session.Error = a.Err

	case LoginSucceeded:
		u := a.User
		pending := s.Session.pending
		s = Initial()
		s.Session = Session{Authenticated: true, CurrentUser: &u, pending: pending, Loading: pending > 0}
		s.Users = cloneUsers(a.Workspace.Users)
		s.Chats = cloneChats(a.Workspace.Chats)
		for id, msgs := range a.Workspace.Messages {
			s.Messages[id] = append([]model.Message(nil), msgs...)
		}
	case LoginFailed:
		s.Session.Authenticated = false
		s.Session.CurrentUser = nil
		s.Session.Error = a.Err
	case LoggedOut:
		s = Initial()

	case ChatSelected:
		s = selectChat(s, a.ChatID)
	case MessageSent:
		s = appendMessage(s, a.Message)
	case ChatRead:
		s = markChatRead(s, a.ChatID, true)
	case ChatCreated:
		chats := make([]model.Chat, 0, len(s.Chats)+1)
		chats = append(chats, cloneChat(a.Chat))
		s.Chats = append(chats, s.Chats...)
		s.Messages = cloneMessageMap(s.Messages)
		if _, ok := s.Messages[a.Chat.ID]; !ok {
			s.Messages[a.Chat.ID] = nil
		}
		s.ActiveChatID = a.Chat.ID
	case ChatRemoved:
		s = removeChat(s, a.ChatID)
	case MemberAdded:
		s = updateChat(s, a.ChatID, func(c *model.Chat) {
			if c.IsGroup && !c.HasMember(a.User.ID) {
				c.Users = append(c.Users, a.User)
			}
		})
	case MemberRemoved:
		s = updateChat(s, a.ChatID, func(c *model.Chat) {
			if !c.IsGroup {
				return
			}
			kept := c.Users[:0]
			for _, u := range c.Users {
				if u.ID != a.UserID {
					kept = append(kept, u)
				}
			}
			c.Users = kept
		})

	case PresenceChanged:
		s = setPresence(s, a)

	case UserCreated:
		s.Users = append(cloneUsers(s.Users), a.User)
	case UserUpdated:
		s = replaceUser(s, a.User)
	case UserDeleted:
		users := make([]model.User, 0, len(s.Users))
		for _, u := range s.Users {
			if u.ID != a.UserID {
				users = append(users, u)
			}
		}
		s.Users = users
	case ProfileUpdated:
		u := a.User
		s.Session.CurrentUser = &u
		s = replaceUser(s, a.User)
	}
	return s
}

func selectChat(s State, chatID string) State {
	if chatID != "" && s.ChatIndex(chatID) < 0 {
		return s
	}
	s.ActiveChatID = chatID
	if chatID == "" {
		return s
	}
	return markChatRead(s, chatID, false)
}

// markChatRead помечает прочитанными сообщения чата: все (квитанция) или только входящие (открытие чата).
func markChatRead(s State, chatID string, all bool) State {
	i := s.ChatIndex(chatID)
	if i < 0 {
		return s
	}
	msgs := s.Messages[chatID]
	changed := false
	for _, m := range msgs {
		if !m.IsRead && (all || !m.IsOwn) {
			changed = true
			break
		}
	}
	if changed {
		next := make([]model.Message, len(msgs))
		for j, m := range msgs {
			if all || !m.IsOwn {
				m.IsRead = true
			}
			next[j] = m
		}
		s.Messages = cloneMessageMap(s.Messages)
		s.Messages[chatID] = next
	}
	return updateChat(s, chatID, func(c *model.Chat) {
		c.UnreadCount = 0
		if c.LastMessage != nil && (all || !c.LastMessage.IsOwn) {
			lm := *c.LastMessage
			lm.IsRead = true
			c.LastMessage = &lm
		}
	})
}

func appendMessage(s State, m model.Message) State {
	if s.ChatIndex(m.ChatID) < 0 {
		return s
	}
	s.Messages = cloneMessageMap(s.Messages)
	prev := s.Messages[m.ChatID]
	next := make([]model.Message, len(prev), len(prev)+1)
	copy(next, prev)
	s.Messages[m.ChatID] = append(next, m)
	return updateChat(s, m.ChatID, func(c *model.Chat) {
		c.LastMessage = m.Summary()
		if !m.IsOwn && !m.IsRead && c.ID != s.ActiveChatID {
			c.UnreadCount++
		}
	})
}

func removeChat(s State, chatID string) State {
	i := s.ChatIndex(chatID)
	if i < 0 {
		return s
	}
	chats := make([]model.Chat, 0, len(s.Chats)-1)
	chats = append(chats, s.Chats[:i]...)
	s.Chats = append(chats, s.Chats[i+1:]...)
	s.Messages = cloneMessageMap(s.Messages)
	delete(s.Messages, chatID)
	if s.ActiveChatID == chatID {
		s.ActiveChatID = ""
	}
	return s
}

func setPresence(s State, a PresenceChanged) State {
	ids := make(map[string]struct{}, len(a.UserIDs))
	for _, id := range a.UserIDs {
		ids[id] = struct{}{}
	}
	users := make([]model.User, len(s.Users))
	for i, u := range s.Users {
		if _, ok := ids[u.ID]; ok {
			u = u.WithStatus(a.Status, a.At)
		}
		users[i] = u
	}
	s.Users = users
	chats := make([]model.Chat, len(s.Chats))
	for i, c := range s.Chats {
		touched := false
		for _, u := range c.Users {
			if _, ok := ids[u.ID]; ok {
				touched = true
				break
			}
		}
		if touched {
			c = cloneChat(c)
			for j, u := range c.Users {
				if _, ok := ids[u.ID]; ok {
					c.Users[j] = u.WithStatus(a.Status, a.At)
				}
			}
		}
		chats[i] = c
	}
	s.Chats = chats
	return s
}

// replaceUser обновляет пользователя в каталоге и в составах чатов; статус сохраняется прежний.
func replaceUser(s State, u model.User) State {
	users := make([]model.User, len(s.Users))
	for i, old := range s.Users {
		if old.ID == u.ID {
			old.Name, old.Email, old.Avatar, old.IsAdmin = u.Name, u.Email, u.Avatar, u.IsAdmin
		}
		users[i] = old
	}
	s.Users = users
	chats := make([]model.Chat, len(s.Chats))
	for i, c := range s.Chats {
		if c.HasMember(u.ID) {
			c = cloneChat(c)
			for j, old := range c.Users {
				if old.ID == u.ID {
					old.Name, old.Email, old.Avatar, old.IsAdmin = u.Name, u.Email, u.Avatar, u.IsAdmin
					c.Users[j] = old
				}
			}
		}
		chats[i] = c
	}
	s.Chats = chats
	return s
}

// updateChat копирует список чатов и применяет fn к копии чата.
func updateChat(s State, chatID string, fn func(c *model.Chat)) State {
	i := s.ChatIndex(chatID)
	if i < 0 {
		return s
	}
	chats := make([]model.Chat, len(s.Chats))
	copy(chats, s.Chats)
	c := cloneChat(chats[i])
	fn(&c)
	chats[i] = c
	s.Chats = chats
	return s
}

func cloneChat(c model.Chat) model.Chat {
	c.Users = cloneUsers(c.Users)
	if c.LastMessage != nil {
		lm := *c.LastMessage
		c.LastMessage = &lm
	}
	return c
}

func cloneChats(chats []model.Chat) []model.Chat {
	out := make([]model.Chat, len(chats))
	for i, c := range chats {
		out[i] = cloneChat(c)
	}
	return out
}

func cloneUsers(users []model.User) []model.User {
	if users == nil {
		return nil
	}
	return append(make([]model.User, 0, len(users)+1), users...)
}

func cloneMessageMap(m map[string][]model.Message) map[string][]model.Message {
	out := make(map[string][]model.Message, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
