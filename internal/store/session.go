package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/messenger/frontend/internal/form"
	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
)

// Login проверяет email, выжидает имитацию задержки и спрашивает аутентификатор.
// При успехе сессия наполняется рабочим пространством; при неудаче в состоянии остаётся
// локализованная ошибка, а возвращается model.ErrInvalidCredentials или model.ErrInvalidEmail.
func (s *Store) Login(ctx context.Context, email, password string) error {
	defer logger.DeferLogDuration("store.Login", time.Now())()

	if err := form.ValidateEmail(email); err != nil {
		_, epoch := s.session()
		s.apply(epoch, state.LoginFailed{Err: model.UserMessage(err)})
		return err
	}

	op, err := s.begin(ctx)
	if err != nil {
		return err
	}
	user, ws, err := s.authenticate(op, email, password)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			op.apply(state.LoginFailed{Err: model.UserMessage(err)})
			logger.Infof("login rejected: %s: %v", email, err)
		}
		op.finish(nil)
		return err
	}
	op.apply(state.LoginSucceeded{User: *user, Workspace: ws})
	op.finish(nil)
	logger.Infof("login: %s (%s)", user.Email, user.ID)
	return nil
}

func (s *Store) authenticate(op *operation, email, password string) (*model.User, state.Workspace, error) {
	if err := op.wait(); err != nil {
		return nil, state.Workspace{}, err
	}
	user, err := s.opts.Auth.Authenticate(op.ctx, email, password)
	if err != nil {
		return nil, state.Workspace{}, err
	}
	ws, err := s.opts.Loader.Workspace(op.ctx, *user)
	if err != nil {
		return nil, state.Workspace{}, fmt.Errorf("store.Login: %w", err)
	}
	return user, ws, nil
}

// Logout очищает сессию и отменяет все её отложенные задачи.
// Колбэки, уже успевшие сработать, отбрасываются по смене эпохи.
func (s *Store) Logout() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	wasAuthenticated := s.st.Session.Authenticated
	s.epoch++
	s.cancel()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	if s.chatIDs != nil {
		s.chatIDs = make(map[string]string)
	}
	s.applyLocked(state.LoggedOut{})
	s.mu.Unlock()

	s.presence.Stop()
	s.typing.Reset()

	if lo, ok := s.opts.Auth.(Logouter); ok && wasAuthenticated {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lo.Logout(ctx); err != nil {
			logger.Errorf("logout: %v", err)
		}
	}
	logger.Info("logout")
}
