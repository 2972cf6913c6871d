package model

import (
	"errors"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

// Тексты, которые видит пользователь.
const (
	MsgInvalidCredentials = "Неверный email или пароль"
	MsgInvalidEmail       = "Некорректный email"
)

// ValidationError — ошибка клиентской валидации формы; блокирует отправку.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Invalid собирает ValidationError.
func Invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// UserMessage возвращает текст ошибки для показа пользователю.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, ErrInvalidEmail):
		return MsgInvalidEmail
	}
	return strings.TrimSpace(err.Error())
}
