package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/messenger/frontend/internal/form"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
)

func (m Model) updateChats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		if m.focus == focusList {
			m.setFocus(focusComposer)
		} else {
			m.setFocus(focusList)
		}
		return m, nil
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.messages, cmd = m.messages.Update(msg)
		return m, cmd
	}

	if m.focus == focusList {
		chats := m.visibleChats()
		switch msg.String() {
		case "up", "k":
			if m.chatCursor > 0 {
				m.chatCursor--
			}
		case "down", "j":
			if m.chatCursor < len(chats)-1 {
				m.chatCursor++
			}
		case "enter":
			if m.chatCursor < len(chats) {
				m.store.SelectChat(chats[m.chatCursor].ID)
				m.refresh()
				m.setFocus(focusComposer)
			}
		case "/":
			m.setFocus(focusComposer)
			m.composer.SetValue("/")
			m.composer.CursorEnd()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.setFocus(focusList)
		return m, nil
	case "enter":
		input := m.composer.Value()
		m.composer.Reset()
		if name, args, ok := parseCommand(input); ok {
			return m.runChatCommand(name, args)
		}
		m.help = false
		if m.store.SendMessage(m.st.ActiveChatID, input) {
			m.notice = ""
		} else if m.st.ActiveChatID == "" && strings.TrimSpace(input) != "" {
			m.notice = "Выберите чат"
		}
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	if value := m.composer.Value(); !strings.HasPrefix(value, "/") {
		m.store.ComposerInput(value)
	}
	return m, cmd
}

func (m Model) runChatCommand(name, args string) (tea.Model, tea.Cmd) {
	m.notice = ""
	m.help = false
	switch name {
	case "help":
		m.help = true
	case "find":
		m.search = args
		m.chatCursor = 0
		if n := len(m.visibleChats()); args != "" && n == 0 {
			m.notice = "Чаты не найдены"
		}
	case "new":
		chatName, ids, unknown := parseNewChat(args, m.st.Users)
		if unknown != "" {
			m.notice = "Пользователь не найден: " + unknown
			break
		}
		if _, err := m.store.CreateChat(chatName, ids); err != nil {
			m.notice = model.UserMessage(err)
			break
		}
		m.search = ""
		m.chatCursor = 0
	case "add", "remove":
		u, ok := resolveUser(m.st.Users, args)
		if !ok {
			m.notice = "Пользователь не найден: " + args
			break
		}
		chat, active := m.st.ActiveChat()
		switch {
		case !active:
			m.notice = "Выберите чат"
		case !chat.IsGroup:
			m.notice = form.MsgDirectChatMembers
		case !state.CanManageChat(m.st, chat):
			m.notice = "Недостаточно прав"
		}
		if m.notice != "" {
			break
		}
		var err error
		if name == "add" {
			if _, ok := model.FindUser(state.AddableUsers(m.st, chat), u.ID); !ok {
				m.notice = u.Name + " уже в чате"
				break
			}
			err = m.store.AddUserToChat(u.ID)
		} else if !chat.HasMember(u.ID) {
			m.notice = u.Name + " не участник чата"
			break
		} else {
			err = m.store.RemoveUserFromChat(u.ID)
		}
		if err != nil {
			m.notice = model.UserMessage(err)
		}
	case "delete":
		if !m.store.DeleteChat() {
			m.notice = "Выберите чат"
		}
	case "leave":
		chat, ok := m.st.ActiveChat()
		switch {
		case !ok:
			m.notice = "Выберите чат"
		case !chat.IsGroup:
			m.notice = "Покинуть можно только группу"
		default:
			m.store.LeaveChatGroup()
		}
	case "admin":
		if !m.isAdmin() {
			m.notice = "Недостаточно прав"
			break
		}
		m.screen = screenAdmin
		m.setFocus(focusComposer)
	case "profile":
		return m.runProfileCommand(args)
	case "logout":
		m.store.Logout()
	case "quit":
		return m, tea.Quit
	default:
		m.notice = "Неизвестная команда /" + name + ", список: /help"
	}
	m.refresh()
	return m, nil
}

// runProfileCommand меняет одно поле профиля; остальные берутся из текущего пользователя.
func (m Model) runProfileCommand(args string) (tea.Model, tea.Cmd) {
	me := m.st.Session.CurrentUser
	if me == nil {
		return m, nil
	}
	in := model.ProfileInput{Name: me.Name, Email: me.Email, Avatar: me.Avatar}
	field, value, _ := strings.Cut(args, " ")
	value = strings.TrimSpace(value)
	confirm := ""
	switch strings.ToLower(field) {
	case "name":
		in.Name = value
	case "email":
		in.Email = value
	case "avatar":
		if _, err := os.Stat(value); err == nil {
			in.AvatarFile = value
		} else {
			in.Avatar = value
		}
	case "password":
		parts := strings.Fields(value)
		if len(parts) != 3 {
			m.notice = "Формат: /profile password текущий новый повтор"
			return m, nil
		}
		in.CurrentPassword, in.NewPassword, confirm = parts[0], parts[1], parts[2]
	default:
		m.notice = "Формат: /profile name|email|avatar значение"
		return m, nil
	}
	if err := form.ValidateProfileForm(in, confirm); err != nil {
		m.notice = model.UserMessage(err)
		return m, nil
	}
	return m, background(func(ctx context.Context) (string, error) {
		if _, err := m.store.UpdateProfile(ctx, in); err != nil {
			return "", err
		}
		return "Профиль обновлён", nil
	})
}

// renderMessages — лента активного чата для viewport.
func (m Model) renderMessages() string {
	chat, ok := m.st.ActiveChat()
	if !ok {
		return styles.muted.Render("Выберите чат слева (↑/↓, Enter)")
	}
	msgs := m.st.ChatMessages(chat.ID)
	if len(msgs) == 0 {
		return styles.muted.Render("Сообщений пока нет")
	}
	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.renderMessage(chat, msg))
	}
	return b.String()
}

func (m Model) renderMessage(chat model.Chat, msg model.Message) string {
	ts := styles.muted.Render(MessageTime(msg.Timestamp))
	if msg.IsOwn {
		mark := "✓"
		if msg.IsRead {
			mark = "✓✓"
		}
		return fmt.Sprintf("%s %s %s %s", ts, styles.own.Render("Вы:"), msg.Text, styles.muted.Render(mark))
	}
	text := msg.Text
	if !msg.IsRead {
		text = styles.unread.Render(text)
	}
	if state.ShowSender(chat, msg) {
		return fmt.Sprintf("%s %s %s", ts, styles.sender.Render(msg.Sender.Name+":"), text)
	}
	return fmt.Sprintf("%s %s", ts, text)
}

// scrollable сообщает, что лента не помещается и её можно листать.
func scrollable(v viewport.Model) bool {
	return v.TotalLineCount() > v.Height
}
