package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/repository"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewTokenService("secret", time.Hour)
	tok, err := s.Issue("u1")
	if err != nil {
		t.Fatal(err)
	}
	id, err := s.Parse(tok)
	if err != nil || id != "u1" {
		t.Fatalf("id=%q err=%v", id, err)
	}
	if _, err := NewTokenService("other", time.Hour).Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret: %v", err)
	}
}

func TestTokenExpires(t *testing.T) {
	s := NewTokenService("secret", time.Minute)
	base := time.Now()
	s.now = func() time.Time { return base }
	tok, _ := s.Issue("u1")
	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := s.Parse(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token accepted: %v", err)
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUserRepository()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	_ = users.Create(ctx, &repository.UserRecord{User: model.User{ID: "u1", Email: "Maria@example.com", Status: model.StatusOffline}, PasswordHash: string(hash)})
	_ = users.Create(ctx, &repository.UserRecord{User: model.User{ID: "u2", Email: "ivan@example.com"}})
	tokens := NewTokenService("secret", time.Hour)
	s := NewAuthService(users, tokens, "password")

	tests := []struct {
		email, password string
		wantID          string
	}{
		{"maria@example.com", "secret", "u1"},
		{"maria@example.com", "password", "u1"},
		{"ivan@example.com", "password", "u2"},
		{"ivan@example.com", "secret", ""},
		{"maria@example.com", "wrong", ""},
		{"nobody@example.com", "password", ""},
	}
	for _, tt := range tests {
		resp, err := s.Login(ctx, tt.email, tt.password)
		if tt.wantID == "" {
			if !errors.Is(err, model.ErrInvalidCredentials) {
				t.Errorf("%s/%s: err = %v", tt.email, tt.password, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s/%s: %v", tt.email, tt.password, err)
			continue
		}
		if resp.User.ID != tt.wantID || resp.User.Status != model.StatusOnline {
			t.Errorf("%s: user = %+v", tt.email, resp.User)
		}
		if id, _ := tokens.Parse(resp.Token); id != tt.wantID {
			t.Errorf("%s: token subject = %q", tt.email, id)
		}
	}
}
