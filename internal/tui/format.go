package tui

import (
	"fmt"
	"time"

	"github.com/messenger/frontend/internal/model"
)

// MessageTime — время сообщения в ленте, ЧЧ:ММ.
func MessageTime(t time.Time) string {
	return t.Local().Format("15:04")
}

// plural выбирает форму слова для числа n: 1 минуту, 2 минуты, 5 минут.
func plural(n int, one, few, many string) string {
	switch {
	case n%10 == 1 && n%100 != 11:
		return one
	case n%10 >= 2 && n%10 <= 4 && (n%100 < 12 || n%100 > 14):
		return few
	}
	return many
}

// Ago — сколько прошло от t до now: «только что», «5 минут назад», «вчера».
func Ago(t, now time.Time) string {
	minutes := int(now.Sub(t) / time.Minute)
	hours := minutes / 60
	days := hours / 24
	switch {
	case minutes < 1:
		return "только что"
	case minutes < 60:
		return fmt.Sprintf("%d %s назад", minutes, plural(minutes, "минуту", "минуты", "минут"))
	case hours < 24:
		return fmt.Sprintf("%d %s назад", hours, plural(hours, "час", "часа", "часов"))
	case days == 1:
		return "вчера"
	}
	return fmt.Sprintf("%d %s назад", days, plural(days, "день", "дня", "дней"))
}

// LastSeen — «был 5 минут назад».
func LastSeen(t, now time.Time) string {
	ago := Ago(t, now)
	if ago == "только что" {
		return "был только что"
	}
	return "был " + ago
}

// StatusText — подпись присутствия пользователя.
func StatusText(u model.User, now time.Time) string {
	switch u.Status {
	case model.StatusOnline:
		return "Онлайн"
	case model.StatusTyping:
		return "Печатает..."
	case model.StatusIdle:
		return "Неактивен"
	}
	if u.LastSeen != nil {
		return LastSeen(*u.LastSeen, now)
	}
	return "Не в сети"
}

// ChatStatus — подзаголовок чата: статус собеседника или число участников группы.
func ChatStatus(c model.Chat, selfID string, now time.Time) string {
	if !c.IsGroup {
		if peer, ok := c.Peer(selfID); ok {
			return StatusText(peer, now)
		}
		return ""
	}
	for _, u := range c.Users {
		if u.ID != selfID && u.Status == model.StatusTyping {
			return u.Name + " печатает..."
		}
	}
	n := len(c.Users)
	return fmt.Sprintf("%d %s", n, plural(n, "участник", "участника", "участников"))
}

// truncate обрезает строку до n символов с многоточием.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
