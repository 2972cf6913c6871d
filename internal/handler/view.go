package handler

import (
	"context"

	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/repository"
)

// views собирает ответы API с точки зрения просматривающего пользователя.
type views struct {
	users *repository.UserRepository
	msgs  *repository.MessageRepository
}

func (v views) user(ctx context.Context, id string) model.User {
	u, err := v.users.GetByID(ctx, id)
	if err != nil {
		return model.User{ID: id, Name: "Удалённый пользователь", Status: model.StatusOffline}
	}
	return u.User
}

func (v views) message(ctx context.Context, m repository.MessageRecord, viewerID string) model.Message {
	return model.Message{
		ID:        m.ID,
		ChatID:    m.ChatID,
		Text:      m.Text,
		Sender:    model.SenderOf(v.user(ctx, m.SenderID)),
		Timestamp: m.CreatedAt,
		IsRead:    m.IsRead,
		IsOwn:     m.SenderID == viewerID,
	}
}

// chat: участниками показываются собеседники просматривающего; личный чат называется именем собеседника.
func (v views) chat(ctx context.Context, c repository.ChatRecord, viewerID string) model.Chat {
	out := model.Chat{ID: c.ID, Name: c.Name, IsGroup: c.IsGroup, Users: []model.User{}}
	for _, id := range c.MemberIDs {
		if id == viewerID {
			continue
		}
		out.Users = append(out.Users, v.user(ctx, id))
	}
	if !c.IsGroup && len(out.Users) > 0 {
		if out.Name == "" {
			out.Name = out.Users[0].Name
		}
		out.Avatar = out.Users[0].Avatar
	}
	if last, err := v.msgs.Last(ctx, c.ID); err == nil {
		out.LastMessage = v.message(ctx, *last, viewerID).Summary()
	}
	out.UnreadCount, _ = v.msgs.CountUnread(ctx, c.ID, viewerID)
	return out
}
