package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
)

// CreateUser добавляет пользователя в каталог после задержки (или ответа сервера).
// Новый пользователь получает свежий id и статус offline.
func (s *Store) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	defer logger.DeferLogDuration("store.CreateUser", time.Now())()

	op, err := s.begin(ctx)
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	if s.opts.Backend != nil {
		var created *model.User
		if created, err = s.opts.Backend.CreateUser(op.ctx, in); err == nil {
			u = *created
		}
	} else if err = op.wait(); err == nil {
		u = model.User{
			ID:      uuid.NewString(),
			Name:    strings.TrimSpace(in.Name),
			Email:   strings.TrimSpace(in.Email),
			IsAdmin: in.IsAdmin,
		}
	}
	if err != nil {
		op.finish(err)
		return model.User{}, fmt.Errorf("store.CreateUser: %w", err)
	}
	if u.Status == "" {
		u.Status = model.StatusOffline
	}
	op.apply(state.UserCreated{User: u})
	op.finish(nil)
	return u, nil
}

// UpdateUser меняет имя, email и флаг администратора пользователя каталога.
func (s *Store) UpdateUser(ctx context.Context, id string, in model.UserInput) (model.User, error) {
	defer logger.DeferLogDuration("store.UpdateUser", time.Now())()

	cur, ok := model.FindUser(s.Snapshot().Users, id)
	if !ok {
		return model.User{}, fmt.Errorf("store.UpdateUser: %s: %w", id, model.ErrNotFound)
	}
	op, err := s.begin(ctx)
	if err != nil {
		return model.User{}, err
	}
	u := cur
	if s.opts.Backend != nil {
		var updated *model.User
		if updated, err = s.opts.Backend.UpdateUser(op.ctx, id, in); err == nil {
			u = *updated
		}
	} else if err = op.wait(); err == nil {
		u.Name = strings.TrimSpace(in.Name)
		u.Email = strings.TrimSpace(in.Email)
		u.IsAdmin = in.IsAdmin
	}
	if err != nil {
		op.finish(err)
		return model.User{}, fmt.Errorf("store.UpdateUser: %w", err)
	}
	op.apply(state.UserUpdated{User: u})
	op.finish(nil)
	return u, nil
}

// DeleteUser удаляет из каталога ровно одного пользователя.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	defer logger.DeferLogDuration("store.DeleteUser", time.Now())()

	if _, ok := model.FindUser(s.Snapshot().Users, id); !ok {
		return fmt.Errorf("store.DeleteUser: %s: %w", id, model.ErrNotFound)
	}
	op, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if s.opts.Backend != nil {
		err = s.opts.Backend.DeleteUser(op.ctx, id)
	} else {
		err = op.wait()
	}
	if err != nil {
		op.finish(err)
		return fmt.Errorf("store.DeleteUser: %w", err)
	}
	op.apply(state.UserDeleted{UserID: id})
	op.finish(nil)
	return nil
}

// UpdateProfile меняет имя, email и аватар текущего пользователя.
func (s *Store) UpdateProfile(ctx context.Context, in model.ProfileInput) (model.User, error) {
	defer logger.DeferLogDuration("store.UpdateProfile", time.Now())()

	snap := s.Snapshot()
	if snap.Session.CurrentUser == nil {
		return model.User{}, model.ErrNotAuthenticated
	}
	op, err := s.begin(ctx)
	if err != nil {
		return model.User{}, err
	}
	u := *snap.Session.CurrentUser
	if s.opts.Backend != nil {
		var updated *model.User
		if updated, err = s.opts.Backend.UpdateProfile(op.ctx, in); err == nil {
			u = *updated
		}
	} else if err = op.wait(); err == nil {
		u.Name = strings.TrimSpace(in.Name)
		u.Email = strings.TrimSpace(in.Email)
		if in.Avatar != "" {
			u.Avatar = in.Avatar
		}
	}
	if err != nil {
		op.finish(err)
		return model.User{}, fmt.Errorf("store.UpdateProfile: %w", err)
	}
	op.apply(state.ProfileUpdated{User: u})
	op.finish(nil)
	return u, nil
}
