// Package form — клиентская проверка форм до отправки.
package form

import (
	"net/mail"
	"strings"

	"github.com/messenger/frontend/internal/model"
)

const (
	MsgNameRequired       = "Введите имя"
	MsgPasswordRequired   = "Введите пароль"
	MsgPasswordsMismatch  = "Пароли не совпадают"
	MsgNewPasswordsDiffer = "Новые пароли не совпадают"
	MsgCurrentPassword    = "Введите текущий пароль"
	MsgChatNameRequired   = "Введите название чата"
	MsgChatUsersRequired  = "Выберите хотя бы одного участника"
	MsgDirectChatMembers  = "Состав личного чата не меняется"
)

// ValidateEmail возвращает model.ErrInvalidEmail, если адрес не разбирается.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return model.ErrInvalidEmail
	}
	return nil
}

// ValidateLogin проверяет форму входа. Пароль сверяет аутентификатор.
func ValidateLogin(email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if password == "" {
		return model.Invalid("password", MsgPasswordRequired)
	}
	return nil
}

// ValidateUserForm проверяет форму админ-панели. При создании пароль обязателен
// и должен совпасть с подтверждением; при редактировании пустой пароль допустим.
func ValidateUserForm(in model.UserInput, confirm string, edit bool) error {
	if strings.TrimSpace(in.Name) == "" {
		return model.Invalid("name", MsgNameRequired)
	}
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if !edit && in.Password == "" {
		return model.Invalid("password", MsgPasswordRequired)
	}
	if in.Password != "" && in.Password != confirm {
		return model.Invalid("confirmPassword", MsgPasswordsMismatch)
	}
	return nil
}

// ValidateProfileForm проверяет форму профиля: смена пароля требует текущий пароль
// и совпадения нового с подтверждением.
func ValidateProfileForm(in model.ProfileInput, confirm string) error {
	if strings.TrimSpace(in.Name) == "" {
		return model.Invalid("name", MsgNameRequired)
	}
	if err := ValidateEmail(in.Email); err != nil {
		return err
	}
	if in.NewPassword == "" {
		return nil
	}
	if in.NewPassword != confirm {
		return model.Invalid("confirmPassword", MsgNewPasswordsDiffer)
	}
	if in.CurrentPassword == "" {
		return model.Invalid("currentPassword", MsgCurrentPassword)
	}
	return nil
}

// ValidateNewChat проверяет название и состав нового чата.
func ValidateNewChat(name string, userIDs []string) error {
	if strings.TrimSpace(name) == "" {
		return model.Invalid("name", MsgChatNameRequired)
	}
	if len(userIDs) == 0 {
		return model.Invalid("users", MsgChatUsersRequired)
	}
	return nil
}
