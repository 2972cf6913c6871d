package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
)

// Authenticate — вход через POST /auth/login с последующим GET /users/me.
// 401 превращается в model.ErrInvalidCredentials.
func (c *Client) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	if _, err := c.Login(ctx, email, password); err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}
	return c.CurrentUser(ctx)
}

// Workspace загружает чаты, их сообщения и каталог пользователей.
// Не администратору каталог /admin/users недоступен: он собирается из участников чатов.
func (c *Client) Workspace(ctx context.Context, me model.User) (state.Workspace, error) {
	chats, err := c.Chats(ctx)
	if err != nil {
		return state.Workspace{}, fmt.Errorf("api.Workspace: %w", err)
	}
	ws := state.Workspace{Chats: chats, Messages: make(map[string][]model.Message, len(chats))}
	for _, ch := range chats {
		msgs, err := c.Messages(ctx, ch.ID)
		if err != nil {
			return state.Workspace{}, fmt.Errorf("api.Workspace: messages %s: %w", ch.ID, err)
		}
		ws.Messages[ch.ID] = msgs
	}

	users, err := c.Users(ctx)
	switch {
	case err == nil:
		ws.Users = selfFirst(me, users)
	case IsStatus(err, http.StatusForbidden):
		logger.Debugf("api.Workspace: directory from chat members (%s is not admin)", me.ID)
		ws.Users = selfFirst(me, chatMembers(chats))
	default:
		return state.Workspace{}, fmt.Errorf("api.Workspace: users: %w", err)
	}
	return ws, nil
}

func chatMembers(chats []model.Chat) []model.User {
	seen := map[string]bool{}
	var out []model.User
	for _, ch := range chats {
		for _, u := range ch.Users {
			if !seen[u.ID] {
				seen[u.ID] = true
				out = append(out, u)
			}
		}
	}
	return out
}

// selfFirst ставит текущего пользователя первым в каталоге.
func selfFirst(me model.User, users []model.User) []model.User {
	out := make([]model.User, 0, len(users)+1)
	out = append(out, me)
	for _, u := range users {
		if u.ID != me.ID {
			out = append(out, u)
		}
	}
	return out
}

func attachFile(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	w, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(w, f)
	return err
}
