// Package seed — встроенные демо-данные клиента и эталонного бэкенда.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
)

//go:embed demo.yaml
var demoYAML []byte

// SelfRef — ссылка на текущего пользователя в составах и авторах сообщений.
const SelfRef = "me"

type User struct {
	model.User         `yaml:",inline"`
	LastSeenMinutesAgo int `yaml:"last_seen_minutes_ago"`
}

type Message struct {
	From       string `yaml:"from"`
	Text       string `yaml:"text"`
	MinutesAgo int    `yaml:"minutes_ago"`
	Read       bool   `yaml:"read"`
}

type Chat struct {
	ID       string    `yaml:"id"`
	Name     string    `yaml:"name"`
	Group    bool      `yaml:"group"`
	Members  []string  `yaml:"members"`
	Messages []Message `yaml:"messages"`
}

type Demo struct {
	Me    model.User `yaml:"me"`
	Users []User     `yaml:"users"`
	Chats []Chat     `yaml:"chats"`
}

// Load разбирает встроенный demo.yaml.
func Load() (*Demo, error) {
	return Parse(demoYAML)
}

// Parse разбирает демо-данные из YAML и проверяет ссылки на пользователей.
func Parse(data []byte) (*Demo, error) {
	var d Demo
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("seed.Parse: %w", err)
	}
	known := map[string]bool{SelfRef: true}
	for _, u := range d.Users {
		known[u.ID] = true
	}
	for _, c := range d.Chats {
		for _, id := range c.Members {
			if !known[id] {
				return nil, fmt.Errorf("seed.Parse: chat %s: unknown member %q", c.ID, id)
			}
		}
		for _, m := range c.Messages {
			if !known[m.From] {
				return nil, fmt.Errorf("seed.Parse: chat %s: unknown sender %q", c.ID, m.From)
			}
		}
	}
	return &d, nil
}

// Directory возвращает каталог: текущий пользователь первым, затем остальные.
// lastSeen отсчитывается от now.
func (d *Demo) Directory(me model.User, now time.Time) []model.User {
	users := make([]model.User, 0, len(d.Users)+1)
	users = append(users, me)
	for _, u := range d.Users {
		v := u.User
		if v.Status == "" {
			v.Status = model.StatusOffline
		}
		if v.Status == model.StatusOffline && u.LastSeenMinutesAgo > 0 {
			t := now.Add(-time.Duration(u.LastSeenMinutesAgo) * time.Minute)
			v.LastSeen = &t
		}
		users = append(users, v)
	}
	return users
}

// Build собирает рабочее пространство для вошедшего пользователя me:
// ссылки "me" заменяются на него, время сообщений отсчитывается от now.
func (d *Demo) Build(me model.User, now time.Time) state.Workspace {
	users := d.Directory(me, now)
	byID := make(map[string]model.User, len(users))
	for _, u := range users[1:] {
		byID[u.ID] = u
	}
	byID[SelfRef] = me

	ws := state.Workspace{
		Users:    users,
		Chats:    make([]model.Chat, 0, len(d.Chats)),
		Messages: make(map[string][]model.Message, len(d.Chats)),
	}
	for _, c := range d.Chats {
		chat := model.Chat{ID: c.ID, Name: c.Name, IsGroup: c.Group}
		for _, id := range c.Members {
			chat.Users = append(chat.Users, byID[id])
		}
		if !chat.IsGroup && chat.Name == "" && len(chat.Users) > 0 {
			chat.Name = chat.Users[0].Name
			chat.Avatar = chat.Users[0].Avatar
		}

		msgs := make([]model.Message, 0, len(c.Messages))
		for i, m := range c.Messages {
			own := m.From == SelfRef
			msg := model.Message{
				ID:        fmt.Sprintf("%s-%d", c.ID, i+1),
				ChatID:    c.ID,
				Text:      m.Text,
				Sender:    model.SenderOf(byID[m.From]),
				Timestamp: now.Add(-time.Duration(m.MinutesAgo) * time.Minute),
				IsRead:    m.Read,
				IsOwn:     own,
			}
			if !own && !m.Read {
				chat.UnreadCount++
			}
			msgs = append(msgs, msg)
		}
		if n := len(msgs); n > 0 {
			chat.LastMessage = msgs[n-1].Summary()
		}
		ws.Chats = append(ws.Chats, chat)
		ws.Messages[c.ID] = msgs
	}
	return ws
}
