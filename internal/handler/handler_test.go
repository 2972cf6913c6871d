package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/messenger/frontend/internal/fileserver"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/repository"
	"github.com/messenger/frontend/internal/seed"
	"github.com/messenger/frontend/internal/service"
)

const testPassword = "password"

type testAPI struct {
	h     http.Handler
	users *repository.UserRepository
	msgs  *repository.MessageRepository
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	d, err := seed.Load()
	if err != nil {
		t.Fatal(err)
	}
	users := repository.NewUserRepository()
	chats := repository.NewChatRepository()
	msgs := repository.NewMessageRepository()
	if err := repository.Seed(context.Background(), d, time.Now(), users, chats, msgs); err != nil {
		t.Fatal(err)
	}
	tokens := service.NewTokenService("test-secret", time.Hour)
	h := NewRouter(Deps{
		Users:              users,
		Chats:              chats,
		Messages:           msgs,
		Auth:               service.NewAuthService(users, tokens, testPassword),
		Tokens:             tokens,
		Files:              fileserver.New(t.TempDir(), 1<<20),
		CORSAllowedOrigins: "*",
		RateLimitPerMinute: 100000,
	})
	return &testAPI{h: h, users: users, msgs: msgs}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: email, Password: testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body)
	}
	var resp service.LoginResponse
	decode(t, rec, &resp)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func errorText(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var e errorResponse
	decode(t, rec, &e)
	return e.Error
}

func TestLogin(t *testing.T) {
	a := newTestAPI(t)
	tests := []struct {
		name     string
		email    string
		password string
		want     int
		msg      string
	}{
		{"ok", "alexey@example.com", testPassword, http.StatusOK, ""},
		{"case insensitive", "Alexey@Example.com", testPassword, http.StatusOK, ""},
		{"wrong password", "alexey@example.com", "nope", http.StatusUnauthorized, model.MsgInvalidCredentials},
		{"unknown user", "nobody@example.com", testPassword, http.StatusUnauthorized, model.MsgInvalidCredentials},
		{"bad email", "not-an-email", testPassword, http.StatusBadRequest, model.MsgInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: tt.email, Password: tt.password})
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body)
			}
			if tt.msg != "" {
				if got := errorText(t, rec); got != tt.msg {
					t.Fatalf("error = %q, want %q", got, tt.msg)
				}
				return
			}
			var resp service.LoginResponse
			decode(t, rec, &resp)
			if resp.Token == "" || resp.User.ID != "current" || resp.User.Status != model.StatusOnline {
				t.Fatalf("resp = %+v", resp)
			}
		})
	}
}

func TestAuthRequired(t *testing.T) {
	a := newTestAPI(t)
	if rec := a.do(t, http.MethodGet, "/api/chats", "", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodGet, "/api/chats", "garbage", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodGet, "/health", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("health: %d", rec.Code)
	}
}

func TestGetUserChats(t *testing.T) {
	a := newTestAPI(t)
	tok := a.login(t, "alexey@example.com")
	rec := a.do(t, http.MethodGet, "/api/chats", tok, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var chats []model.Chat
	decode(t, rec, &chats)
	if len(chats) != 4 {
		t.Fatalf("chats = %d", len(chats))
	}
	first := chats[0]
	if first.ID != "chat-maria" || first.Name != "Мария Иванова" || first.IsGroup {
		t.Fatalf("first = %+v", first)
	}
	if len(first.Users) != 1 || first.Users[0].ID != "user-maria" {
		t.Fatalf("1:1 members = %+v", first.Users)
	}
	if first.UnreadCount != 1 || first.LastMessage == nil || first.LastMessage.IsOwn {
		t.Fatalf("unread=%d last=%+v", first.UnreadCount, first.LastMessage)
	}
	if team := chats[1]; !team.IsGroup || len(team.Users) != 3 || team.HasMember("current") || team.UnreadCount != 2 {
		t.Fatalf("team = %+v", team)
	}
	if chats[3].LastMessage != nil {
		t.Fatalf("empty chat has last message")
	}

	// Мария видит тот же личный чат со своей стороны.
	rec = a.do(t, http.MethodGet, "/api/chats", a.login(t, "maria@example.com"), nil)
	decode(t, rec, &chats)
	if len(chats) != 2 || chats[0].Name != "Алексей Сидоров" || chats[0].UnreadCount != 0 {
		t.Fatalf("maria chats = %+v", chats)
	}
}

func TestCreateChat(t *testing.T) {
	a := newTestAPI(t)
	tok := a.login(t, "alexey@example.com")

	rec := a.do(t, http.MethodPost, "/api/chats", tok, CreateChatRequest{Name: "  ", UserIDs: []string{"user-maria"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name: %d", rec.Code)
	}
	rec = a.do(t, http.MethodPost, "/api/chats", tok, CreateChatRequest{Name: "x", UserIDs: nil})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("no users: %d", rec.Code)
	}
	rec = a.do(t, http.MethodPost, "/api/chats", tok, CreateChatRequest{Name: "x", UserIDs: []string{"ghost"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown user: %d", rec.Code)
	}

	rec = a.do(t, http.MethodPost, "/api/chats", tok, CreateChatRequest{Name: "Дизайн", UserIDs: []string{"user-maria", "user-elena", "user-maria"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create group: %d %s", rec.Code, rec.Body)
	}
	var chat model.Chat
	decode(t, rec, &chat)
	if !chat.IsGroup || chat.Name != "Дизайн" || len(chat.Users) != 2 || chat.Users[0].ID != "user-maria" || chat.Users[1].ID != "user-elena" {
		t.Fatalf("group = %+v", chat)
	}
	// У участника создатель виден в составе, а сам участник нет.
	var elenaChats []model.Chat
	decode(t, a.do(t, http.MethodGet, "/api/chats", a.login(t, "elena@example.com"), nil), &elenaChats)
	if len(elenaChats) == 0 || elenaChats[0].ID != chat.ID || !elenaChats[0].HasMember("current") || elenaChats[0].HasMember("user-elena") {
		t.Fatalf("elena sees %+v", elenaChats)
	}

	rec = a.do(t, http.MethodPost, "/api/chats", tok, CreateChatRequest{Name: "Дмитрий", UserIDs: []string{"user-dmitry"}})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create direct: %d", rec.Code)
	}
	decode(t, rec, &chat)
	if chat.IsGroup || len(chat.Users) != 1 || chat.Users[0].ID != "user-dmitry" {
		t.Fatalf("direct = %+v", chat)
	}

	var chats []model.Chat
	decode(t, a.do(t, http.MethodGet, "/api/chats", tok, nil), &chats)
	if len(chats) != 6 || chats[0].ID != chat.ID {
		t.Fatalf("newest chat not first: %d chats, first %s", len(chats), chats[0].ID)
	}
}

func TestDeleteChat(t *testing.T) {
	a := newTestAPI(t)
	tok := a.login(t, "alexey@example.com")
	if rec := a.do(t, http.MethodDelete, "/api/chats/chat-maria", a.login(t, "elena@example.com"), nil); rec.Code != http.StatusForbidden {
		t.Fatalf("non-member delete: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodDelete, "/api/chats/chat-maria", tok, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodDelete, "/api/chats/chat-maria", tok, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", rec.Code)
	}
	msgs, _ := a.msgs.GetByChatID(context.Background(), "chat-maria")
	if len(msgs) != 0 {
		t.Fatalf("messages left: %d", len(msgs))
	}
}

func TestMessages(t *testing.T) {
	a := newTestAPI(t)
	tok := a.login(t, "alexey@example.com")

	if rec := a.do(t, http.MethodPost, "/api/chats/chat-elena/messages", tok, SendMessageRequest{Text: "   "}); rec.Code != http.StatusBadRequest {
		t.Fatalf("blank: %d", rec.Code)
	}
	rec := a.do(t, http.MethodPost, "/api/chats/chat-elena/messages", tok, SendMessageRequest{Text: " Привет "})
	if rec.Code != http.StatusCreated {
		t.Fatalf("send: %d %s", rec.Code, rec.Body)
	}
	var sent model.Message
	decode(t, rec, &sent)
	if sent.Text != "Привет" || !sent.IsOwn || sent.IsRead || sent.Sender.ID != "current" {
		t.Fatalf("sent = %+v", sent)
	}

	elena := a.login(t, "elena@example.com")
	var msgs []model.Message
	decode(t, a.do(t, http.MethodGet, "/api/chats/chat-elena/messages", elena, nil), &msgs)
	if len(msgs) != 1 || msgs[0].IsOwn {
		t.Fatalf("elena sees %+v", msgs)
	}
	if rec := a.do(t, http.MethodPost, "/api/chats/chat-elena/messages/"+sent.ID+"/read", elena, nil); rec.Code != http.StatusOK {
		t.Fatalf("read: %d", rec.Code)
	}
	decode(t, a.do(t, http.MethodGet, "/api/chats/chat-elena/messages", tok, nil), &msgs)
	if !msgs[0].IsRead {
		t.Fatal("receipt not visible to sender")
	}
	if rec := a.do(t, http.MethodPost, "/api/chats/chat-elena/messages/nope/read", elena, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown message: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodGet, "/api/chats/chat-team/messages", elena, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("non-member read: %d", rec.Code)
	}
}

func TestAdminUsers(t *testing.T) {
	a := newTestAPI(t)
	admin := a.login(t, "alexey@example.com")

	if rec := a.do(t, http.MethodGet, "/api/admin/users", a.login(t, "maria@example.com"), nil); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin: %d", rec.Code)
	}

	var users []model.User
	decode(t, a.do(t, http.MethodGet, "/api/admin/users", admin, nil), &users)
	if len(users) != 5 || users[0].ID != "current" {
		t.Fatalf("users = %d first %+v", len(users), users)
	}

	rec := a.do(t, http.MethodPost, "/api/admin/users", admin, UserRequest{Name: "Олег", Email: "oleg@example.com", Password: "s3cret"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var oleg model.User
	decode(t, rec, &oleg)
	if oleg.ID == "" || oleg.Status != model.StatusOffline || oleg.IsAdmin {
		t.Fatalf("created = %+v", oleg)
	}
	rec = a.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "oleg@example.com", Password: "s3cret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("new user login: %d", rec.Code)
	}

	rec = a.do(t, http.MethodPost, "/api/admin/users", admin, UserRequest{Name: "Дубль", Email: "OLEG@example.com", Password: "x"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodPost, "/api/admin/users", admin, UserRequest{Name: "Без пароля", Email: "np@example.com"}); rec.Code != http.StatusBadRequest {
		t.Fatalf("no password: %d", rec.Code)
	}

	rec = a.do(t, http.MethodPut, "/api/admin/users/"+oleg.ID, admin, UserRequest{Name: "Олег К.", Email: "oleg@example.com", IsAdmin: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body)
	}
	decode(t, rec, &oleg)
	if oleg.Name != "Олег К." || !oleg.IsAdmin {
		t.Fatalf("updated = %+v", oleg)
	}
	if rec := a.do(t, http.MethodPut, "/api/admin/users/ghost", admin, UserRequest{Name: "x", Email: "x@example.com"}); rec.Code != http.StatusNotFound {
		t.Fatalf("update unknown: %d", rec.Code)
	}

	if rec := a.do(t, http.MethodDelete, "/api/admin/users/current", admin, nil); rec.Code != http.StatusBadRequest {
		t.Fatalf("delete self: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodDelete, "/api/admin/users/user-ivan", admin, nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	var chats []model.Chat
	decode(t, a.do(t, http.MethodGet, "/api/chats", admin, nil), &chats)
	for _, c := range chats {
		if c.HasMember("user-ivan") {
			t.Fatalf("deleted user still in %s", c.ID)
		}
	}
}

func TestUpdateProfile(t *testing.T) {
	a := newTestAPI(t)
	tok := a.login(t, "alexey@example.com")

	rec := a.do(t, http.MethodPut, "/api/users/profile", tok, UpdateProfileRequest{Name: "Алексей С.", NewPassword: "new", CurrentPassword: "wrong"})
	if rec.Code != http.StatusBadRequest || errorText(t, rec) != "Неверный текущий пароль" {
		t.Fatalf("wrong current: %d", rec.Code)
	}
	if rec := a.do(t, http.MethodPut, "/api/users/profile", tok, UpdateProfileRequest{Email: "maria@example.com"}); rec.Code != http.StatusConflict {
		t.Fatalf("taken email: %d", rec.Code)
	}

	rec = a.do(t, http.MethodPut, "/api/users/profile", tok, UpdateProfileRequest{Name: "Алексей С.", NewPassword: "fresh", CurrentPassword: testPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body)
	}
	var me model.User
	decode(t, a.do(t, http.MethodGet, "/api/users/me", tok, nil), &me)
	if me.Name != "Алексей С." || me.Email != "alexey@example.com" {
		t.Fatalf("me = %+v", me)
	}
	rec = a.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "alexey@example.com", Password: "fresh"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new password: %d", rec.Code)
	}
}

func TestUpdateProfileAvatarUpload(t *testing.T) {
	a := newTestAPI(t)
	tok := a.login(t, "alexey@example.com")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	_ = mw.WriteField("name", "С аватаром")
	fw, _ := mw.CreateFormFile("avatar", "me.png")
	fw.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...))
	mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/users/profile", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("multipart: %d %s", rec.Code, rec.Body)
	}
	var me model.User
	decode(t, rec, &me)
	if me.Name != "С аватаром" || !strings.HasPrefix(me.Avatar, fileserver.URLPrefix) {
		t.Fatalf("me = %+v", me)
	}

	rec = a.do(t, http.MethodGet, me.Avatar, "", nil)
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("serve avatar: %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}
