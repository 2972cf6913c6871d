package tui

import (
	"testing"
	"time"

	"github.com/messenger/frontend/internal/model"
)

func TestAgo(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "только что"},
		{1 * time.Minute, "1 минуту назад"},
		{3 * time.Minute, "3 минуты назад"},
		{11 * time.Minute, "11 минут назад"},
		{21 * time.Minute, "21 минуту назад"},
		{42 * time.Minute, "42 минуты назад"},
		{2 * time.Hour, "2 часа назад"},
		{5 * time.Hour, "5 часов назад"},
		{21 * time.Hour, "21 час назад"},
		{30 * time.Hour, "вчера"},
		{5 * 24 * time.Hour, "5 дней назад"},
		{22 * 24 * time.Hour, "22 дня назад"},
	}
	for _, tt := range tests {
		if got := Ago(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("Ago(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestStatusText(t *testing.T) {
	now := time.Now()
	seen := now.Add(-42 * time.Minute)
	tests := []struct {
		user model.User
		want string
	}{
		{model.User{Status: model.StatusOnline}, "Онлайн"},
		{model.User{Status: model.StatusTyping}, "Печатает..."},
		{model.User{Status: model.StatusIdle}, "Неактивен"},
		{model.User{Status: model.StatusOffline}, "Не в сети"},
		{model.User{Status: model.StatusOffline, LastSeen: &seen}, "был 42 минуты назад"},
	}
	for _, tt := range tests {
		if got := StatusText(tt.user, now); got != tt.want {
			t.Errorf("StatusText(%s) = %q, want %q", tt.user.Status, got, tt.want)
		}
	}
}

func TestChatStatus(t *testing.T) {
	now := time.Now()
	direct := model.Chat{Users: []model.User{{ID: "u1", Status: model.StatusOnline}}}
	if got := ChatStatus(direct, "me", now); got != "Онлайн" {
		t.Fatalf("direct = %q", got)
	}
	group := model.Chat{IsGroup: true, Users: []model.User{{ID: "me"}, {ID: "u1"}, {ID: "u2"}}}
	if got := ChatStatus(group, "me", now); got != "3 участника" {
		t.Fatalf("group = %q", got)
	}
	group.Users[2] = model.User{ID: "u2", Name: "Мария", Status: model.StatusTyping}
	if got := ChatStatus(group, "me", now); got != "Мария печатает..." {
		t.Fatalf("typing = %q", got)
	}
}

func TestMessageTime(t *testing.T) {
	ts := time.Date(2024, 5, 10, 9, 5, 0, 0, time.Local)
	if got := MessageTime(ts); got != "09:05" {
		t.Fatalf("MessageTime = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Привет, мир", 7); got != "Привет…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("коротко", 20); got != "коротко" {
		t.Fatalf("truncate short = %q", got)
	}
}
