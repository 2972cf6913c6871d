package model

import (
	"strings"
	"time"
	"unicode"
)

// Status — присутствие пользователя.
type Status string

const (
	StatusOnline  Status = "online"
	StatusOffline Status = "offline"
	StatusIdle    Status = "idle"
	StatusTyping  Status = "typing"
)

// Valid сообщает, входит ли статус в допустимый набор.
func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusIdle, StatusTyping:
		return true
	}
	return false
}

type User struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name" yaml:"name"`
	Email    string     `json:"email" yaml:"email"`
	Avatar   string     `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	IsAdmin  bool       `json:"isAdmin" yaml:"is_admin"`
	Status   Status     `json:"status,omitempty" yaml:"status,omitempty"`
	LastSeen *time.Time `json:"lastSeen,omitempty" yaml:"-"` // только для offline
}

// WithStatus возвращает копию пользователя с новым статусом; lastSeen выставляется при уходе в offline.
func (u User) WithStatus(s Status, now time.Time) User {
	if u.Status == s {
		return u
	}
	u.Status = s
	if s == StatusOffline {
		t := now
		u.LastSeen = &t
	} else {
		u.LastSeen = nil
	}
	return u
}

// Initials — одна-две заглавные буквы имени для аватара-заглушки.
func (u User) Initials() string {
	return Initials(u.Name)
}

// Initials строит инициалы по словам имени («Алексей Сидоров» → «АС»).
func Initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		out = append(out, unicode.ToUpper([]rune(w)[0]))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// FindUser ищет пользователя по id.
func FindUser(users []User, id string) (User, bool) {
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}
