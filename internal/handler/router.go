package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/messenger/frontend/internal/fileserver"
	"github.com/messenger/frontend/internal/middleware"
	"github.com/messenger/frontend/internal/repository"
	"github.com/messenger/frontend/internal/service"
)

// Deps — зависимости HTTP API.
type Deps struct {
	Users    *repository.UserRepository
	Chats    *repository.ChatRepository
	Messages *repository.MessageRepository
	Auth     *service.AuthService
	Tokens   *service.TokenService
	Files    *fileserver.Service

	CORSAllowedOrigins string
	RateLimitPerMinute int
	// AccessLog включает построчный лог chi; в тестах выключен.
	AccessLog bool
}

// NewRouter собирает маршруты /api поверх репозиториев.
func NewRouter(d Deps) http.Handler {
	authH := NewAuthHandler(d.Auth)
	userH := NewUserHandler(d.Users, d.Chats, d.Auth, d.Files)
	chatH := NewChatHandler(d.Chats, d.Users, d.Messages)
	msgH := NewMessageHandler(d.Messages, d.Chats, d.Users)
	fileH := NewFileHandler(d.Files)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	if d.AccessLog {
		r.Use(chimw.Logger)
	}
	r.Use(middleware.RecoverJSON)
	r.Use(middleware.RequestLog)
	r.Use(middleware.NewRateLimiter(d.RateLimitPerMinute).Handler)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   strings.Split(d.CORSAllowedOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", authH.Login)
		r.Get("/files/{filename}", fileH.Serve)

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(d.Tokens))

			r.Get("/users/me", userH.GetProfile)
			r.Put("/users/profile", userH.UpdateProfile)
			r.Post("/files/avatar", fileH.Upload)

			r.Get("/chats", chatH.GetUserChats)
			r.Post("/chats", chatH.CreateChat)
			r.Delete("/chats/{id}", chatH.DeleteChat)
			r.Get("/chats/{id}/messages", msgH.GetMessages)
			r.Post("/chats/{id}/messages", msgH.SendMessage)
			r.Post("/chats/{id}/messages/{mid}/read", msgH.MarkAsRead)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(userH.IsAdmin))
				r.Get("/users", userH.ListUsers)
				r.Post("/users", userH.CreateUser)
				r.Put("/users/{id}", userH.UpdateUser)
				r.Delete("/users/{id}", userH.DeleteUser)
			})
		})
	})
	return r
}
