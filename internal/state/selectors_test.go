package state

import (
	"testing"

	"github.com/messenger/frontend/internal/model"
)

func TestFilterChats(t *testing.T) {
	chats := []model.Chat{{ID: "1", Name: "Команда проекта"}, {ID: "2", Name: "Мария"}}
	if got := FilterChats(chats, "  КОМ "); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("got %v", got)
	}
	if got := FilterChats(chats, ""); len(got) != 2 {
		t.Fatalf("empty term must return all, got %v", got)
	}
	if got := FilterChats(chats, "zzz"); len(got) != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestAddableUsersAndContacts(t *testing.T) {
	s := fixture()
	c, _ := s.Chat("c1")
	got := AddableUsers(s, c)
	if len(got) != 1 || got[0].ID != "u2" {
		t.Fatalf("addable = %v", got)
	}
	if n := len(Contacts(s)); n != 2 {
		t.Fatalf("contacts = %d", n)
	}
}

func TestCanManageChat(t *testing.T) {
	s := fixture()
	group, _ := s.Chat("c2")
	direct, _ := s.Chat("c1")
	if !CanManageChat(s, group) {
		t.Fatal("admin must manage the group")
	}
	if CanManageChat(s, direct) {
		t.Fatal("direct chats have no admin gate")
	}
	group.Users = group.Users[1:]
	if !CanManageChat(s, group) {
		t.Fatal("admin manages a group without being listed in it")
	}
	plain := *s.Session.CurrentUser
	plain.IsAdmin = false
	s.Session.CurrentUser = &plain
	if CanManageChat(s, group) {
		t.Fatal("non-admin cannot manage")
	}
}

func TestShowSender(t *testing.T) {
	g := model.Chat{IsGroup: true}
	if !ShowSender(g, model.Message{}) || ShowSender(g, model.Message{IsOwn: true}) || ShowSender(model.Chat{}, model.Message{}) {
		t.Fatal("sender shown only for foreign messages in groups")
	}
}
