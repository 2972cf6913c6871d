package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/messenger/frontend/internal/form"
	"github.com/messenger/frontend/internal/model"
)

func (m Model) updateAdmin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		if m.adminCursor > 0 {
			m.adminCursor--
		}
		return m, nil
	case "down":
		if m.adminCursor < len(m.st.Users)-1 {
			m.adminCursor++
		}
		return m, nil
	case "esc":
		m.screen = screenChats
		m.notice = ""
		return m, nil
	case "enter":
		input := m.composer.Value()
		m.composer.Reset()
		name, args, ok := parseCommand(input)
		if !ok {
			m.notice = "Команды админ-панели: /help"
			return m, nil
		}
		return m.runAdminCommand(name, args)
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

func (m Model) selectedUser() (model.User, bool) {
	if m.adminCursor < 0 || m.adminCursor >= len(m.st.Users) {
		return model.User{}, false
	}
	return m.st.Users[m.adminCursor], true
}

func (m Model) runAdminCommand(name, args string) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.help = false
	switch name {
	case "help":
		m.help = true
	case "back":
		m.screen = screenChats
	case "create":
		in, confirm := parseUserForm(args)
		if err := form.ValidateUserForm(in, confirm, false); err != nil {
			m.notice = model.UserMessage(err)
			break
		}
		return m, background(func(ctx context.Context) (string, error) {
			u, err := m.store.CreateUser(ctx, in)
			if err != nil {
				return "", err
			}
			return "Пользователь " + u.Name + " создан", nil
		})
	case "edit":
		target, ok := m.selectedUser()
		if !ok {
			m.notice = "Выберите пользователя"
			break
		}
		in, confirm := parseUserForm(args)
		if err := form.ValidateUserForm(in, confirm, true); err != nil {
			m.notice = model.UserMessage(err)
			break
		}
		return m, background(func(ctx context.Context) (string, error) {
			u, err := m.store.UpdateUser(ctx, target.ID, in)
			if err != nil {
				return "", err
			}
			return "Пользователь " + u.Name + " обновлён", nil
		})
	case "delete":
		target, ok := m.selectedUser()
		switch {
		case !ok:
			m.notice = "Выберите пользователя"
		case target.ID == m.st.CurrentUserID():
			m.notice = "Нельзя удалить самого себя"
		default:
			return m, background(func(ctx context.Context) (string, error) {
				if err := m.store.DeleteUser(ctx, target.ID); err != nil {
					return "", err
				}
				return "Пользователь " + target.Name + " удалён", nil
			})
		}
	default:
		m.notice = "Неизвестная команда /" + name + ", список: /help"
	}
	return m, nil
}
