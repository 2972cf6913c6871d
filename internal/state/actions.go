package state

import (
	"time"

	"github.com/messenger/frontend/internal/model"
)

// Action — намерение, применяемое Reduce.
type Action interface {
	action()
}

// Workspace — данные, которыми наполняется состояние после входа.
type Workspace struct {
	Users    []model.User
	Chats    []model.Chat
	Messages map[string][]model.Message
}

type (
	// OperationStarted — началась операция с имитацией задержки (флаг загрузки).
	OperationStarted struct{}
	// OperationFinished — операция завершилась; Err — текст для пользователя или "".
	OperationFinished struct{ Err string }
	// SyncFailed — сервер не принял локальное изменение чата или сообщения.
	SyncFailed struct{ Err string }

	LoginSucceeded struct {
		User      model.User
		Workspace Workspace
	}
	LoginFailed struct{ Err string }
	LoggedOut   struct{}

	ChatSelected struct{ ChatID string }
	MessageSent  struct{ Message model.Message }
	// ChatRead — имитация квитанции о прочтении: все сообщения чата прочитаны.
	ChatRead    struct{ ChatID string }
	ChatCreated struct{ Chat model.Chat }
	// ChatRemoved — удаление чата или выход из группы.
	ChatRemoved   struct{ ChatID string }
	MemberAdded   struct {
		ChatID string
		User   model.User
	}
	MemberRemoved struct {
		ChatID string
		UserID string
	}

	PresenceChanged struct {
		UserIDs []string
		Status  model.Status
		At      time.Time
	}

	UserCreated    struct{ User model.User }
	UserUpdated    struct{ User model.User }
	UserDeleted    struct{ UserID string }
	ProfileUpdated struct{ User model.User }
)

func (OperationStarted) action()  {}
func (OperationFinished) action() {}
func (SyncFailed) action()        {}
func (LoginSucceeded) action()    {}
func (LoginFailed) action()       {}
func (LoggedOut) action()         {}
func (ChatSelected) action()      {}
func (MessageSent) action()       {}
func (ChatRead) action()          {}
func (ChatCreated) action()       {}
func (ChatRemoved) action()       {}
func (MemberAdded) action()       {}
func (MemberRemoved) action()     {}
func (PresenceChanged) action()   {}
func (UserCreated) action()       {}
func (UserUpdated) action()       {}
func (UserDeleted) action()       {}
func (ProfileUpdated) action()    {}
