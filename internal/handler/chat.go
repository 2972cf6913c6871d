package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/middleware"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/repository"
)

type ChatHandler struct {
	chatRepo *repository.ChatRepository
	userRepo *repository.UserRepository
	msgRepo  *repository.MessageRepository
	views    views
}

func NewChatHandler(chatRepo *repository.ChatRepository, userRepo *repository.UserRepository, msgRepo *repository.MessageRepository) *ChatHandler {
	return &ChatHandler{
		chatRepo: chatRepo,
		userRepo: userRepo,
		msgRepo:  msgRepo,
		views:    views{users: userRepo, msgs: msgRepo},
	}
}

// GetUserChats — GET /chats: чаты текущего пользователя, новые в начале.
func (h *ChatHandler) GetUserChats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	recs, err := h.chatRepo.GetUserChats(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err, "", "GetUserChats")
		return
	}
	out := make([]model.Chat, 0, len(recs))
	for _, c := range recs {
		out = append(out, h.views.chat(r.Context(), c, userID))
	}
	writeJSON(w, http.StatusOK, out)
}

type CreateChatRequest struct {
	Name    string   `json:"name"`
	UserIDs []string `json:"userIds"`
}

// CreateChat — POST /chats. Больше одного собеседника — группа с текущим пользователем в составе.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Введите название чата")
		return
	}
	userID := middleware.GetUserID(r.Context())
	members := []string{userID}
	seen := map[string]bool{userID: true}
	for _, id := range req.UserIDs {
		if seen[id] {
			continue
		}
		if _, err := h.userRepo.GetByID(r.Context(), id); err != nil {
			writeRepoError(w, err, "Пользователь не найден", "CreateChat")
			return
		}
		seen[id] = true
		members = append(members, id)
	}
	if len(members) < 2 {
		writeError(w, http.StatusBadRequest, "Выберите хотя бы одного пользователя")
		return
	}

	rec := &repository.ChatRecord{
		ID:        uuid.New().String(),
		Name:      req.Name,
		IsGroup:   len(members) > 2,
		MemberIDs: members,
		CreatedBy: userID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.chatRepo.Create(r.Context(), rec); err != nil {
		writeRepoError(w, err, "", "CreateChat")
		return
	}
	logger.Infof("chat created: %s by %s (%d members)", rec.ID, userID, len(members))
	writeJSON(w, http.StatusCreated, h.views.chat(r.Context(), *rec, userID))
}

// DeleteChat — DELETE /chats/{id}: чат удаляется вместе с сообщениями.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())
	chat, err := h.chatRepo.GetByID(r.Context(), chatID)
	if err != nil {
		writeRepoError(w, err, "Чат не найден", "DeleteChat")
		return
	}
	if !chat.HasMember(userID) {
		writeError(w, http.StatusForbidden, "Нет доступа к чату")
		return
	}
	if err := h.chatRepo.Delete(r.Context(), chatID); err != nil {
		writeRepoError(w, err, "Чат не найден", "DeleteChat")
		return
	}
	if err := h.msgRepo.DeleteByChatID(r.Context(), chatID); err != nil {
		logger.Errorf("DeleteChat messages %s: %v", chatID, err)
	}
	writeJSON(w, http.StatusOK, okResponse)
}
