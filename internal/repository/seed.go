package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/messenger/frontend/internal/seed"
)

// Seed наполняет репозитории демо-данными; время отсчитывается от now.
func Seed(ctx context.Context, d *seed.Demo, now time.Time, users *UserRepository, chats *ChatRepository, msgs *MessageRepository) error {
	ref := func(id string) string {
		if id == seed.SelfRef {
			return d.Me.ID
		}
		return id
	}

	me := UserRecord{User: d.Me, CreatedAt: now.Add(-time.Hour)}
	if err := users.Create(ctx, &me); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	for i, u := range d.Directory(d.Me, now)[1:] {
		rec := UserRecord{User: u, CreatedAt: me.CreatedAt.Add(time.Duration(i+1) * time.Second)}
		if err := users.Create(ctx, &rec); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	for i, c := range d.Chats {
		rec := ChatRecord{
			ID:        c.ID,
			Name:      c.Name,
			IsGroup:   c.Group,
			CreatedBy: d.Me.ID,
			// порядок файла сохраняется: первый чат самый новый
			CreatedAt: now.Add(-time.Duration(i+1) * time.Minute),
		}
		rec.MemberIDs = append(rec.MemberIDs, d.Me.ID)
		for _, id := range c.Members {
			if rec.HasMember(ref(id)) {
				continue
			}
			rec.MemberIDs = append(rec.MemberIDs, ref(id))
		}
		if err := chats.Create(ctx, &rec); err != nil {
			return fmt.Errorf("seed chats: %w", err)
		}
		for j, m := range c.Messages {
			msg := MessageRecord{
				ID:        fmt.Sprintf("%s-%d", c.ID, j+1),
				ChatID:    c.ID,
				SenderID:  ref(m.From),
				Text:      m.Text,
				CreatedAt: now.Add(-time.Duration(m.MinutesAgo) * time.Minute),
				IsRead:    m.Read,
			}
			if err := msgs.Create(ctx, &msg); err != nil {
				return fmt.Errorf("seed messages: %w", err)
			}
		}
	}
	return nil
}
