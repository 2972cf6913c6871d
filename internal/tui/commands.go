package tui

import (
	"strings"

	"github.com/messenger/frontend/internal/model"
)

const chatsHelp = `Команды:
  /find [текст]               поиск чатов по названию (без текста — сброс)
  /new Название | кто, кто    новый чат; участники по id, email или имени
  /add кто                    добавить участника в текущий чат
  /remove кто                 убрать участника из текущего чата
  /delete                     удалить текущий чат
  /leave                      покинуть текущую группу
  /profile name|email|avatar значение
  /profile password текущий новый повтор
  /admin                      управление пользователями
  /logout                     выйти
Tab — переключение между списком и полем ввода, Enter — открыть чат / отправить.`

const adminHelp = `Команды:
  /create Имя | email | пароль | повтор [| admin]
  /edit Имя | email [| пароль | повтор] [| admin]   изменить выбранного
  /delete                                           удалить выбранного
  /back                                             к чатам
↑/↓ — выбор пользователя.`

// parseCommand разбирает строку вида "/name args". ok=false, если это не команда.
func parseCommand(input string) (name, args string, ok bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", "", false
	}
	name, args, _ = strings.Cut(input[1:], " ")
	return strings.ToLower(name), strings.TrimSpace(args), true
}

// splitFields делит аргументы по sep и обрезает пробелы; пустые поля сохраняются.
func splitFields(args, sep string) []string {
	if strings.TrimSpace(args) == "" {
		return nil
	}
	parts := strings.Split(args, sep)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// resolveUser ищет пользователя каталога по id, email или имени (без учёта регистра).
func resolveUser(users []model.User, ref string) (model.User, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.User{}, false
	}
	if u, ok := model.FindUser(users, ref); ok {
		return u, true
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, ref) || strings.EqualFold(u.Name, ref) {
			return u, true
		}
	}
	return model.User{}, false
}

// parseNewChat: "Название | кто, кто" → название и id участников.
// Возвращает первую нераспознанную ссылку на пользователя.
func parseNewChat(args string, users []model.User) (name string, ids []string, unknown string) {
	name, list, _ := strings.Cut(args, "|")
	name = strings.TrimSpace(name)
	for _, ref := range splitFields(list, ",") {
		if ref == "" {
			continue
		}
		u, ok := resolveUser(users, ref)
		if !ok {
			return name, nil, ref
		}
		ids = append(ids, u.ID)
	}
	return name, ids, ""
}

// parseUserForm: "Имя | email | пароль | повтор | admin". Пароль с повтором и флаг admin
// необязательны; флаг распознаётся последним полем.
func parseUserForm(args string) (in model.UserInput, confirm string) {
	f := splitFields(args, "|")
	if n := len(f); n > 0 && strings.EqualFold(f[n-1], "admin") {
		in.IsAdmin = true
		f = f[:n-1]
	}
	get := func(i int) string {
		if i < len(f) {
			return f[i]
		}
		return ""
	}
	in.Name, in.Email, in.Password, confirm = get(0), get(1), get(2), get(3)
	return in, confirm
}
