package model

import "time"

// LastMessage — сводка последнего сообщения для списка чатов.
type LastMessage struct {
	Text   string    `json:"text"`
	Time   time.Time `json:"time"`
	IsRead bool      `json:"isRead"`
	IsOwn  bool      `json:"isOwn"`
}

type Chat struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	IsGroup     bool         `json:"isGroup"`
	Users       []User       `json:"users"`
	Avatar      string       `json:"avatar,omitempty"`
	LastMessage *LastMessage `json:"lastMessage,omitempty"`
	UnreadCount int          `json:"unreadCount"`
}

// HasMember проверяет, есть ли пользователь среди участников.
func (c *Chat) HasMember(userID string) bool {
	for _, u := range c.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}

// Peer — собеседник в личном чате (первый участник, не равный selfID).
func (c *Chat) Peer(selfID string) (User, bool) {
	if c.IsGroup {
		return User{}, false
	}
	for _, u := range c.Users {
		if u.ID != selfID {
			return u, true
		}
	}
	return User{}, false
}

// MemberIDs возвращает id участников, кроме selfID.
func (c *Chat) MemberIDs(selfID string) []string {
	ids := make([]string, 0, len(c.Users))
	for _, u := range c.Users {
		if u.ID != selfID {
			ids = append(ids, u.ID)
		}
	}
	return ids
}
