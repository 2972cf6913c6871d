package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
)

func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.viewLogin()
	case screenAdmin:
		return m.viewAdmin()
	}
	return m.viewChats()
}

// statusLine — загрузка, ошибка формы или сессии, подсказка.
func (m Model) statusLine(hint string) string {
	switch {
	case m.st.Session.Loading:
		return m.spinner.View() + " Загрузка..."
	case m.notice != "":
		return styles.errText.Render(m.notice)
	case m.st.Session.Error != "":
		return styles.errText.Render(m.st.Session.Error)
	}
	return styles.muted.Render(hint)
}

func (m Model) viewLogin() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.title.Render("Вход в мессенджер"),
		"",
		m.email.View(),
		m.password.View(),
		"",
		m.statusLine("Tab — следующее поле, Enter — войти"),
	)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styles.box.Render(body))
}

func (m Model) header() string {
	me := m.st.Session.CurrentUser
	if me == nil {
		return ""
	}
	title := styles.title.Render("Мессенджер")
	user := fmt.Sprintf("%s %s", styles.avatar.Render("["+me.Initials()+"]"), me.Name)
	if me.IsAdmin {
		user += styles.muted.Render(" (админ)")
	}
	if n := state.TotalUnread(m.st); n > 0 {
		user += " " + styles.badge.Render(fmt.Sprint(n))
	}
	return title + "  " + user
}

func (m Model) viewChats() string {
	listWidth := m.listWidth()
	list := styles.panel.Width(listWidth).Height(max(m.height-4, 3)).Render(m.renderChatList(listWidth - 2))

	var right strings.Builder
	if chat, ok := m.st.ActiveChat(); ok {
		right.WriteString(styles.sender.Render(chat.Name))
		right.WriteString("  ")
		right.WriteString(m.presenceStyle(chat).Render(ChatStatus(chat, m.st.CurrentUserID(), m.now())))
		if chat.IsGroup {
			right.WriteString("\n" + styles.muted.Render(memberNames(chat)))
		}
	} else {
		right.WriteString(styles.muted.Render("Чат не выбран"))
	}
	right.WriteString("\n\n")
	if m.help {
		right.WriteString(chatsHelp)
	} else {
		right.WriteString(m.messages.View())
	}
	right.WriteString("\n\n")
	right.WriteString(m.composer.View())
	hint := "Tab — список/ввод, /help — команды"
	if scrollable(m.messages) {
		hint += ", PgUp/PgDn — прокрутка"
	}
	right.WriteString("\n" + m.statusLine(hint))

	chatWidth := max(m.width-listWidth-4, 20)
	main := lipgloss.JoinHorizontal(lipgloss.Top, list, styles.panel.Width(chatWidth).Render(right.String()))
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), main)
}

func (m Model) renderChatList(width int) string {
	chats := m.visibleChats()
	var b strings.Builder
	if m.search != "" {
		b.WriteString(styles.muted.Render("Поиск: "+m.search) + "\n")
	}
	if len(chats) == 0 {
		b.WriteString(styles.muted.Render("Нет чатов"))
		return b.String()
	}
	now := m.now()
	for i, c := range chats {
		name := c.Name
		if c.ID == m.st.ActiveChatID {
			name = styles.active.Render("● ") + name
		}
		if c.UnreadCount > 0 {
			name = styles.unread.Render(name) + " " + styles.badge.Render(fmt.Sprint(c.UnreadCount))
		}
		line := name
		preview := ""
		if c.LastMessage != nil {
			text := c.LastMessage.Text
			if c.LastMessage.IsOwn {
				text = "Вы: " + text
			}
			when := Ago(c.LastMessage.Time, now)
			preview = truncate(text, max(width-len([]rune(when))-1, 8)) + " " + when
		}
		entry := line + "\n" + styles.muted.Render(preview)
		if i == m.chatCursor && m.focus == focusList {
			entry = styles.selected.Render(line) + "\n" + styles.muted.Render(preview)
		}
		b.WriteString(entry)
		if i < len(chats)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) presenceStyle(chat model.Chat) lipgloss.Style {
	if chat.IsGroup {
		return styles.muted
	}
	peer, ok := chat.Peer(m.st.CurrentUserID())
	if !ok {
		return styles.muted
	}
	return statusStyle(peer.Status)
}

func statusStyle(s model.Status) lipgloss.Style {
	switch s {
	case model.StatusOnline:
		return styles.online
	case model.StatusTyping:
		return styles.typing
	case model.StatusIdle:
		return styles.idle
	}
	return styles.muted
}

func memberNames(chat model.Chat) string {
	names := make([]string, len(chat.Users))
	for i, u := range chat.Users {
		names[i] = u.Name
	}
	return strings.Join(names, ", ")
}

func (m Model) viewAdmin() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Управление пользователями") + "\n\n")
	if m.help {
		b.WriteString(adminHelp + "\n")
	} else {
		now := m.now()
		for i, u := range m.st.Users {
			role := "пользователь"
			if u.IsAdmin {
				role = "админ"
			}
			row := fmt.Sprintf("%-4s %-24s %-28s %-12s", "["+u.Initials()+"]", truncate(u.Name, 24), truncate(u.Email, 28), role)
			status := statusStyle(u.Status).Render(StatusText(u, now))
			if i == m.adminCursor {
				row = styles.selected.Render(row)
			}
			b.WriteString(row + " " + status + "\n")
		}
	}
	b.WriteString("\n" + m.composer.View() + "\n")
	b.WriteString(m.statusLine("↑/↓ — выбор, /help — команды, Esc — назад"))
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), styles.panel.Width(max(m.width-2, 40)).Render(b.String()))
}
