package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/repository"
)

const bcryptCost = 12

// AuthService проверяет email и пароль. Контрольный пароль принимается для любого
// известного email (демо-режим), иначе пароль сверяется с bcrypt-хешем.
type AuthService struct {
	users    *repository.UserRepository
	tokens   *TokenService
	sentinel string
}

func NewAuthService(users *repository.UserRepository, tokens *TokenService, sentinel string) *AuthService {
	return &AuthService{users: users, tokens: tokens, sentinel: sentinel}
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	defer logger.DeferLogDuration("auth.Login", time.Now())()
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if !s.checkPassword(u, password) {
		return nil, model.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if err := s.users.SetStatus(ctx, u.ID, model.StatusOnline, time.Now()); err != nil {
		logger.Errorf("auth.Login set status %s: %v", u.ID, err)
	}
	user := u.User
	user.Status = model.StatusOnline
	user.LastSeen = nil
	return &LoginResponse{Token: token, User: user}, nil
}

// VerifyPassword — проверка текущего пароля при смене пароля в профиле.
func (s *AuthService) VerifyPassword(ctx context.Context, userID, password string) (bool, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return s.checkPassword(u, password), nil
}

func (s *AuthService) checkPassword(u *repository.UserRecord, password string) bool {
	if s.sentinel != "" && password == s.sentinel {
		return true
	}
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword хеширует пароль для хранения.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
