package store

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/seed"
	"github.com/messenger/frontend/internal/state"
)

// DefaultMockPassword — пароль, который принимает демо-аутентификатор при любом email.
const DefaultMockPassword = "password"

// Authenticator проверяет учётные данные. На неверные возвращает model.ErrInvalidCredentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

// Logouter — аутентификатор, которому нужно знать о выходе (удалить токен).
type Logouter interface {
	Logout(ctx context.Context) error
}

// WorkspaceLoader наполняет состояние после входа.
type WorkspaceLoader interface {
	Workspace(ctx context.Context, me model.User) (state.Workspace, error)
}

// Backend — серверные операции админ-панели и профиля.
type Backend interface {
	CreateUser(ctx context.Context, in model.UserInput) (*model.User, error)
	UpdateUser(ctx context.Context, id string, in model.UserInput) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error)
}

// ChatBackend — сервер для чатов и сообщений. Локальное состояние меняется сразу,
// изменения уходят на сервер в фоне по одному в порядке поступления.
type ChatBackend interface {
	CreateChat(ctx context.Context, name string, userIDs []string) (*model.Chat, error)
	DeleteChat(ctx context.Context, chatID string) error
	SendMessage(ctx context.Context, chatID, text string) (*model.Message, error)
	MarkAsRead(ctx context.Context, chatID, messageID string) error
}

// MockAuthenticator принимает любой корректный email с контрольным паролем
// и возвращает демо-пользователя.
type MockAuthenticator struct {
	password string
	user     model.User
}

// NewMockAuthenticator: пустой password заменяется DefaultMockPassword, nil user заменяется текущим пользователем демо-данных.
func NewMockAuthenticator(password string, user *model.User) *MockAuthenticator {
	if password == "" {
		password = DefaultMockPassword
	}
	m := &MockAuthenticator{password: password}
	if user != nil {
		m.user = *user
	} else if d, err := seed.Load(); err == nil {
		m.user = d.Me
	}
	if m.user.Status == "" {
		m.user.Status = model.StatusOnline
	}
	return m
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if password != m.password {
		return nil, model.ErrInvalidCredentials
	}
	u := m.user
	return &u, nil
}

// SeedLoader строит рабочее пространство из встроенных демо-данных.
type SeedLoader struct {
	Clock clockwork.Clock
}

func (l SeedLoader) Workspace(ctx context.Context, me model.User) (state.Workspace, error) {
	d, err := seed.Load()
	if err != nil {
		return state.Workspace{}, fmt.Errorf("store.SeedLoader: %w", err)
	}
	clock := l.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return d.Build(me, clock.Now()), nil
}
