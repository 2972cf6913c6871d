package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/messenger/frontend/internal/logger"
)

// TokenParser проверяет bearer-токен и возвращает id пользователя.
type TokenParser interface {
	Parse(token string) (string, error)
}

// AdminChecker сообщает, администратор ли пользователь.
type AdminChecker func(ctx context.Context, userID string) (bool, error)

func unauthorized(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// BearerAuth требует заголовок Authorization: Bearer <token> и кладёт user_id в контекст.
func BearerAuth(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				unauthorized(w, http.StatusUnauthorized, "Требуется авторизация")
				return
			}
			userID, err := tokens.Parse(parts[1])
			if err != nil {
				logger.Debugf("bearer auth %s: %v", MaskToken(parts[1]), err)
				unauthorized(w, http.StatusUnauthorized, "Сессия истекла, войдите снова")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// RequireAdmin пропускает только администраторов (после BearerAuth).
func RequireAdmin(isAdmin AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := isAdmin(r.Context(), GetUserID(r.Context()))
			if err != nil || !ok {
				unauthorized(w, http.StatusForbidden, "Недостаточно прав")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
