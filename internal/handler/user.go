package handler

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/messenger/frontend/internal/fileserver"
	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/middleware"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/repository"
	"github.com/messenger/frontend/internal/service"
)

type UserHandler struct {
	userRepo *repository.UserRepository
	chatRepo *repository.ChatRepository
	auth     *service.AuthService
	files    *fileserver.Service
}

func NewUserHandler(userRepo *repository.UserRepository, chatRepo *repository.ChatRepository, auth *service.AuthService, files *fileserver.Service) *UserHandler {
	return &UserHandler{userRepo: userRepo, chatRepo: chatRepo, auth: auth, files: files}
}

// IsAdmin — проверка для middleware.RequireAdmin.
func (h *UserHandler) IsAdmin(ctx context.Context, userID string) (bool, error) {
	u, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.IsAdmin, nil
}

// GetProfile — GET /users/me.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.userRepo.GetByID(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeRepoError(w, err, "Пользователь не найден", "GetProfile")
		return
	}
	writeJSON(w, http.StatusOK, user.User)
}

type UpdateProfileRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	Avatar          string `json:"avatar"`
}

// UpdateProfile — PUT /users/profile: JSON или multipart с файлом avatar.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if !h.readProfileForm(w, r, &req) {
			return
		}
	} else if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserID(r.Context())
	user, err := h.userRepo.GetByID(r.Context(), userID)
	if err != nil {
		writeRepoError(w, err, "Пользователь не найден", "UpdateProfile")
		return
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			writeError(w, http.StatusBadRequest, model.MsgInvalidEmail)
			return
		}
		if !h.emailFree(w, r.Context(), email, userID) {
			return
		}
		user.Email = email
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.NewPassword != "" {
		ok, err := h.auth.VerifyPassword(r.Context(), userID, req.CurrentPassword)
		if err != nil || !ok {
			writeError(w, http.StatusBadRequest, "Неверный текущий пароль")
			return
		}
		hash, err := service.HashPassword(req.NewPassword)
		if err != nil {
			logger.Errorf("UpdateProfile hash: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		user.PasswordHash = hash
	}

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		writeRepoError(w, err, "Пользователь не найден", "UpdateProfile")
		return
	}
	writeJSON(w, http.StatusOK, user.User)
}

// readProfileForm разбирает multipart-форму профиля и сохраняет присланный аватар.
func (h *UserHandler) readProfileForm(w http.ResponseWriter, r *http.Request, req *UpdateProfileRequest) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.files.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(h.files.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "Файл слишком большой")
		return false
	}
	req.Name = r.FormValue("name")
	req.Email = r.FormValue("email")
	req.CurrentPassword = r.FormValue("currentPassword")
	req.NewPassword = r.FormValue("newPassword")

	file, header, err := r.FormFile("avatar")
	if errors.Is(err, http.ErrMissingFile) {
		req.Avatar = r.FormValue("avatar")
		return true
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid avatar")
		return false
	}
	defer file.Close()
	url, err := h.files.SaveAvatar(r.Context(), header.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, fileserver.ErrTypeNotAllowed), errors.Is(err, fileserver.ErrContentMismatch):
			writeError(w, http.StatusBadRequest, "Аватар должен быть изображением (jpg, png, gif, webp)")
		case errors.Is(err, fileserver.ErrTooLarge):
			writeError(w, http.StatusBadRequest, "Файл слишком большой")
		default:
			logger.Errorf("save avatar: %v", err)
			writeError(w, http.StatusInternalServerError, "Не удалось сохранить аватар")
		}
		return false
	}
	req.Avatar = url
	return true
}

// emailFree проверяет, что email не занят другим пользователем; иначе отвечает 409.
func (h *UserHandler) emailFree(w http.ResponseWriter, ctx context.Context, email, selfID string) bool {
	existing, err := h.userRepo.GetByEmail(ctx, email)
	if err == nil && existing.ID != selfID {
		writeError(w, http.StatusConflict, "Пользователь с таким email уже существует")
		return false
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		writeRepoError(w, err, "", "emailFree")
		return false
	}
	return true
}

// ListUsers — GET /admin/users.
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.ListAll(r.Context())
	if err != nil {
		writeRepoError(w, err, "", "ListUsers")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type UserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"isAdmin"`
}

func (req *UserRequest) validate(w http.ResponseWriter, passwordRequired bool) bool {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Введите имя")
		return false
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, model.MsgInvalidEmail)
		return false
	}
	if passwordRequired && req.Password == "" {
		writeError(w, http.StatusBadRequest, "Введите пароль")
		return false
	}
	return true
}

// CreateUser — POST /admin/users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req UserRequest
	if !decodeJSON(w, r, &req) || !req.validate(w, true) {
		return
	}
	if !h.emailFree(w, r.Context(), req.Email, "") {
		return
	}
	hash, err := service.HashPassword(req.Password)
	if err != nil {
		logger.Errorf("CreateUser hash: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	u := &repository.UserRecord{
		User: model.User{
			ID:      uuid.New().String(),
			Name:    req.Name,
			Email:   req.Email,
			IsAdmin: req.IsAdmin,
			Status:  model.StatusOffline,
		},
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.userRepo.Create(r.Context(), u); err != nil {
		writeRepoError(w, err, "", "CreateUser")
		return
	}
	logger.Infof("user created: %s by %s", u.ID, middleware.GetUserID(r.Context()))
	writeJSON(w, http.StatusCreated, u.User)
}

// UpdateUser — PUT /admin/users/{id}; пустой пароль оставляет прежний.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UserRequest
	if !decodeJSON(w, r, &req) || !req.validate(w, false) {
		return
	}
	u, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		writeRepoError(w, err, "Пользователь не найден", "UpdateUser")
		return
	}
	if !h.emailFree(w, r.Context(), req.Email, id) {
		return
	}
	u.Name, u.Email, u.IsAdmin = req.Name, req.Email, req.IsAdmin
	if req.Password != "" {
		if u.PasswordHash, err = service.HashPassword(req.Password); err != nil {
			logger.Errorf("UpdateUser hash: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
	}
	if err := h.userRepo.Update(r.Context(), u); err != nil {
		writeRepoError(w, err, "Пользователь не найден", "UpdateUser")
		return
	}
	writeJSON(w, http.StatusOK, u.User)
}

// DeleteUser — DELETE /admin/users/{id}. Себя удалить нельзя.
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == middleware.GetUserID(r.Context()) {
		writeError(w, http.StatusBadRequest, "Нельзя удалить самого себя")
		return
	}
	if err := h.userRepo.Delete(r.Context(), id); err != nil {
		writeRepoError(w, err, "Пользователь не найден", "DeleteUser")
		return
	}
	if err := h.chatRepo.RemoveUser(r.Context(), id); err != nil {
		logger.Errorf("DeleteUser remove from chats %s: %v", id, err)
	}
	writeJSON(w, http.StatusOK, okResponse)
}
