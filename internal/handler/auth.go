package handler

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login — POST /auth/login: {email, password} → {token, user}.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeError(w, http.StatusBadRequest, model.MsgInvalidEmail)
		return
	}
	resp, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, model.MsgInvalidCredentials)
			return
		}
		logger.Errorf("login %s: %v", req.Email, err)
		writeError(w, http.StatusInternalServerError, "Ошибка входа")
		return
	}
	logger.Infof("login: %s", resp.User.ID)
	writeJSON(w, http.StatusOK, resp)
}
