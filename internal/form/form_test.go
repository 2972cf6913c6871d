package form

import (
	"errors"
	"testing"

	"github.com/messenger/frontend/internal/model"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		ok    bool
	}{
		{"alexey@example.com", true},
		{"  ", false},
		{"not-an-email", false},
		{"Alexey <alexey@example.com>", false},
		{"a@b", true},
	}
	for _, tt := range tests {
		err := ValidateEmail(tt.email)
		if (err == nil) != tt.ok {
			t.Errorf("ValidateEmail(%q) = %v", tt.email, err)
		}
		if err != nil && !errors.Is(err, model.ErrInvalidEmail) {
			t.Errorf("ValidateEmail(%q) returned %v, want ErrInvalidEmail", tt.email, err)
		}
	}
}

func TestValidateUserForm(t *testing.T) {
	base := model.UserInput{Name: "Мария", Email: "maria@example.com", Password: "secret"}
	tests := []struct {
		name    string
		in      model.UserInput
		confirm string
		edit    bool
		wantMsg string
	}{
		{"create ok", base, "secret", false, ""},
		{"create mismatch", base, "other", false, MsgPasswordsMismatch},
		{"create without password", model.UserInput{Name: "Мария", Email: "maria@example.com"}, "", false, MsgPasswordRequired},
		{"edit keeps password", model.UserInput{Name: "Мария", Email: "maria@example.com"}, "", true, ""},
		{"edit mismatch", base, "x", true, MsgPasswordsMismatch},
		{"blank name", model.UserInput{Name: " ", Email: "maria@example.com"}, "", true, MsgNameRequired},
		{"bad email", model.UserInput{Name: "Мария", Email: "maria"}, "", true, model.MsgInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserForm(tt.in, tt.confirm, tt.edit)
			if got := model.UserMessage(err); got != tt.wantMsg {
				t.Fatalf("message = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestValidateProfileForm(t *testing.T) {
	in := model.ProfileInput{Name: "Алексей", Email: "alexey@example.com"}
	if err := ValidateProfileForm(in, ""); err != nil {
		t.Fatalf("no password change: %v", err)
	}
	in.NewPassword = "new"
	if got := model.UserMessage(ValidateProfileForm(in, "nope")); got != MsgNewPasswordsDiffer {
		t.Fatalf("got %q", got)
	}
	if got := model.UserMessage(ValidateProfileForm(in, "new")); got != MsgCurrentPassword {
		t.Fatalf("got %q", got)
	}
	in.CurrentPassword = "old"
	if err := ValidateProfileForm(in, "new"); err != nil {
		t.Fatal(err)
	}
}

func TestValidateNewChat(t *testing.T) {
	if err := ValidateNewChat("Team", []string{"u1"}); err != nil {
		t.Fatal(err)
	}
	if err := ValidateNewChat("  ", []string{"u1"}); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("blank name: %v", err)
	}
	if err := ValidateNewChat("Team", nil); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("no users: %v", err)
	}
}

func TestValidateLogin(t *testing.T) {
	if err := ValidateLogin("bad", "password"); !errors.Is(err, model.ErrInvalidEmail) {
		t.Fatalf("err = %v", err)
	}
	if err := ValidateLogin("a@example.com", ""); !errors.Is(err, model.ErrValidation) {
		t.Fatalf("err = %v", err)
	}
	if err := ValidateLogin("a@example.com", "x"); err != nil {
		t.Fatal(err)
	}
}
