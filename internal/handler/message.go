package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/messenger/frontend/internal/middleware"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/repository"
)

type MessageHandler struct {
	msgRepo  *repository.MessageRepository
	chatRepo *repository.ChatRepository
	views    views
}

func NewMessageHandler(msgRepo *repository.MessageRepository, chatRepo *repository.ChatRepository, userRepo *repository.UserRepository) *MessageHandler {
	return &MessageHandler{
		msgRepo:  msgRepo,
		chatRepo: chatRepo,
		views:    views{users: userRepo, msgs: msgRepo},
	}
}

// memberChat возвращает чат, если текущий пользователь в нём состоит; иначе пишет ответ и возвращает nil.
func (h *MessageHandler) memberChat(w http.ResponseWriter, r *http.Request) *repository.ChatRecord {
	chat, err := h.chatRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeRepoError(w, err, "Чат не найден", "memberChat")
		return nil
	}
	if !chat.HasMember(middleware.GetUserID(r.Context())) {
		writeError(w, http.StatusForbidden, "Нет доступа к чату")
		return nil
	}
	return chat
}

// GetMessages — GET /chats/{id}/messages.
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	chat := h.memberChat(w, r)
	if chat == nil {
		return
	}
	recs, err := h.msgRepo.GetByChatID(r.Context(), chat.ID)
	if err != nil {
		writeRepoError(w, err, "", "GetMessages")
		return
	}
	userID := middleware.GetUserID(r.Context())
	out := make([]model.Message, 0, len(recs))
	for _, m := range recs {
		out = append(out, h.views.message(r.Context(), m, userID))
	}
	writeJSON(w, http.StatusOK, out)
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

// SendMessage — POST /chats/{id}/messages.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	chat := h.memberChat(w, r)
	if chat == nil {
		return
	}
	var req SendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Пустое сообщение")
		return
	}
	userID := middleware.GetUserID(r.Context())
	rec := &repository.MessageRecord{
		ID:        uuid.New().String(),
		ChatID:    chat.ID,
		SenderID:  userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.msgRepo.Create(r.Context(), rec); err != nil {
		writeRepoError(w, err, "", "SendMessage")
		return
	}
	writeJSON(w, http.StatusCreated, h.views.message(r.Context(), *rec, userID))
}

// MarkAsRead — POST /chats/{id}/messages/{mid}/read: читаются это и все более ранние входящие.
func (h *MessageHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	chat := h.memberChat(w, r)
	if chat == nil {
		return
	}
	err := h.msgRepo.MarkAsRead(r.Context(), chat.ID, chi.URLParam(r, "mid"), middleware.GetUserID(r.Context()))
	if err != nil {
		writeRepoError(w, err, "Сообщение не найдено", "MarkAsRead")
		return
	}
	writeJSON(w, http.StatusOK, okResponse)
}
