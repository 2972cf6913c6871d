package model

import "time"

// Sender — автор сообщения в том виде, в каком его показывает клиент.
type Sender struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"isRead"`
	IsOwn     bool      `json:"isOwn"` // относительно просматривающего пользователя
}

// Summary строит сводку для списка чатов.
func (m Message) Summary() *LastMessage {
	return &LastMessage{Text: m.Text, Time: m.Timestamp, IsRead: m.IsRead, IsOwn: m.IsOwn}
}

// SenderOf переводит пользователя в автора сообщения.
func SenderOf(u User) Sender {
	return Sender{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}
