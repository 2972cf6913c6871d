// Package tui — терминальный интерфейс мессенджера на bubbletea.
// Модель не хранит собственного состояния предметной области: она рисует снимки
// store.Store и передаёт ему намерения пользователя (вход, выбор чата, отправка, админка).
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/state"
	"github.com/messenger/frontend/internal/store"
)

type screen int

const (
	screenLogin screen = iota
	screenChats
	screenAdmin
)

type focusArea int

const (
	focusComposer focusArea = iota
	focusList
)

// opTimeout — предел ожидания операций, идущих «на сервер».
const opTimeout = 30 * time.Second

type (
	// stateChangedMsg — в store произошёл переход.
	stateChangedMsg struct{}
	// opDoneMsg — завершилась фоновая операция (вход, админка, профиль).
	opDoneMsg struct {
		notice string
		err    error
	}
)

// Model — корневая модель bubbletea.
type Model struct {
	store   *store.Store
	updates <-chan struct{}
	st      state.State
	now     func() time.Time

	screen screen
	width  int
	height int

	email      textinput.Model
	password   textinput.Model
	loginFocus int

	composer    textinput.Model
	focus       focusArea
	chatCursor  int
	search      string
	adminCursor int
	messages    viewport.Model
	spinner     spinner.Model

	notice string // подсказка или ошибка формы
	help   bool
}

// New создаёт модель поверх store. Подписка снимается при закрытии store.
func New(s *store.Store) Model {
	email := textinput.New()
	email.Placeholder = "email@example.com"
	email.Prompt = "Email:  "
	email.CharLimit = 254
	email.Focus()

	password := textinput.New()
	password.Placeholder = "пароль"
	password.Prompt = "Пароль: "
	password.CharLimit = 128
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	composer := textinput.New()
	composer.Placeholder = "Сообщение или /help"
	composer.Prompt = "> "
	composer.CharLimit = 4000

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	updates, _ := s.Subscribe()
	return Model{
		store:    s,
		updates:  updates,
		st:       s.Snapshot(),
		now:      time.Now,
		email:    email,
		password: password,
		composer: composer,
		messages: viewport.New(60, 20),
		spinner:  sp,
		width:    100,
		height:   30,
	}
}

// Run запускает интерфейс в альтернативном экране терминала.
func Run(s *store.Store) error {
	_, err := tea.NewProgram(New(s), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForChange(m.updates))
}

// waitForChange ждёт следующего уведомления store.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case stateChangedMsg:
		m.refresh()
		return m, waitForChange(m.updates)

	case opDoneMsg:
		m.refresh()
		switch {
		case msg.err != nil:
			m.notice = model.UserMessage(msg.err)
		default:
			m.notice = msg.notice
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenAdmin:
			return m.updateAdmin(msg)
		}
		return m.updateChats(msg)
	}
	return m, nil
}

// refresh перечитывает снимок и выбирает экран: без сессии показывается вход.
func (m *Model) refresh() {
	m.st = m.store.Snapshot()
	switch {
	case !m.st.Session.Authenticated:
		if m.screen != screenLogin {
			m.screen = screenLogin
			m.help = false
			m.composer.Reset()
			m.password.Reset()
			m.setLoginFocus(0)
		}
	case m.screen == screenLogin:
		m.screen = screenChats
		m.notice = ""
		m.password.Reset()
		m.setFocus(focusList)
	}
	if m.screen == screenAdmin && !m.isAdmin() {
		m.screen = screenChats
	}
	if chats := m.visibleChats(); m.chatCursor >= len(chats) {
		m.chatCursor = max(len(chats)-1, 0)
	}
	if m.adminCursor >= len(m.st.Users) {
		m.adminCursor = max(len(m.st.Users)-1, 0)
	}
	m.messages.SetContent(m.renderMessages())
	m.messages.GotoBottom()
}

func (m *Model) layout() {
	listWidth := m.listWidth()
	m.messages.Width = max(m.width-listWidth-4, 20)
	m.messages.Height = max(m.height-8, 3)
	m.composer.Width = max(m.width-listWidth-8, 10)
	m.messages.SetContent(m.renderMessages())
}

func (m Model) listWidth() int {
	return min(max(m.width/3, 24), 40)
}

func (m Model) isAdmin() bool {
	u := m.st.Session.CurrentUser
	return u != nil && u.IsAdmin
}

func (m Model) visibleChats() []model.Chat {
	return state.FilterChats(m.st.Chats, m.search)
}

func (m *Model) setLoginFocus(i int) {
	m.loginFocus = i
	if i == 0 {
		m.email.Focus()
		m.password.Blur()
	} else {
		m.password.Focus()
		m.email.Blur()
	}
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusComposer {
		m.composer.Focus()
	} else {
		m.composer.Blur()
	}
}

// background выполняет операцию store вне цикла отрисовки.
func background(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		notice, err := fn(ctx)
		return opDoneMsg{notice: notice, err: err}
	}
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "up", "down":
		m.setLoginFocus(1 - m.loginFocus)
		return m, nil
	case "enter":
		if m.loginFocus == 0 {
			m.setLoginFocus(1)
			return m, nil
		}
		if m.st.Session.Loading {
			return m, nil
		}
		email, password := m.email.Value(), m.password.Value()
		m.notice = ""
		return m, background(func(ctx context.Context) (string, error) {
			return "", m.store.Login(ctx, email, password)
		})
	}
	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}
