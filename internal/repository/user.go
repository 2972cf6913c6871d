package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/model"
)

// ErrNotFound — запись не найдена.
var ErrNotFound = model.ErrNotFound

// UserRecord — пользователь вместе с хешем пароля. Пустой хеш — вход только по контрольному паролю.
type UserRecord struct {
	model.User
	PasswordHash string
	CreatedAt    time.Time
}

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]UserRecord
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]UserRecord)}
}

func (r *UserRepository) Create(ctx context.Context, u *UserRecord) error {
	defer logger.DeferLogDuration("user.Create", time.Now())()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return fmt.Errorf("userRepo.Create: duplicate id %s", u.ID)
	}
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*UserRecord, error) {
	defer logger.DeferLogDuration("user.GetByID", time.Now())()
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// GetByEmail ищет пользователя без учёта регистра email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	defer logger.DeferLogDuration("user.GetByEmail", time.Now())()
	email = strings.ToLower(strings.TrimSpace(email))
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.ToLower(u.Email) == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// ListAll возвращает пользователей в порядке создания.
func (r *UserRepository) ListAll(ctx context.Context) ([]model.User, error) {
	defer logger.DeferLogDuration("user.ListAll", time.Now())()
	r.mu.RLock()
	recs := make([]UserRecord, 0, len(r.users))
	for _, u := range r.users {
		recs = append(recs, u)
	}
	r.mu.RUnlock()

	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].CreatedAt.Before(recs[j].CreatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
	users := make([]model.User, len(recs))
	for i, u := range recs {
		users[i] = u.User
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *UserRecord) error {
	defer logger.DeferLogDuration("user.Update", time.Now())()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return ErrNotFound
	}
	r.users[u.ID] = *u
	return nil
}

// SetStatus меняет статус присутствия; уход в offline запоминает время.
func (r *UserRepository) SetStatus(ctx context.Context, id string, status model.Status, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.User = u.User.WithStatus(status, at)
	r.users[id] = u
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	defer logger.DeferLogDuration("user.Delete", time.Now())()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrNotFound
	}
	delete(r.users, id)
	return nil
}
