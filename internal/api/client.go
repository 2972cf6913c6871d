// Package api — REST-клиент бэкенда мессенджера (POST /auth/login, /chats, /admin/users ...).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/messenger/frontend/internal/logger"
	"github.com/messenger/frontend/internal/model"
	"github.com/messenger/frontend/internal/storage"
)

// DefaultErrorMessage — текст ошибки, если сервер не прислал своего.
const DefaultErrorMessage = "Произошла ошибка при выполнении запроса"

// Error — ответ сервера со статусом вне 2xx. Error() — текст для пользователя.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return DefaultErrorMessage
	}
	return e.Message
}

// IsStatus сообщает, что err является ответом сервера с данным статусом.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client вызывает REST API. Токен берётся из хранилища и добавляется в каждый запрос.
type Client struct {
	baseURL    string
	tokens     storage.TokenStore
	httpClient *http.Client
}

// New создаёт клиент. при timeout <= 0 используется 15 секунд.
func New(baseURL string, tokens storage.TokenStore, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		tokens:     tokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do отправляет body как JSON и разбирает ответ в out.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var (
		rd          io.Reader
		contentType string
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api.%s %s: %w", method, path, err)
		}
		rd, contentType = bytes.NewReader(data), "application/json"
	}
	return c.doRaw(ctx, method, path, rd, contentType, out)
}

func (c *Client) doRaw(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	defer logger.DeferLogDuration("api "+method+" "+path, time.Now())()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api.%s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil && path != loginPath {
		if tok, err := c.tokens.Token(ctx); err != nil {
			logger.Errorf("api: read token: %v", err)
		} else if tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api.%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("api.%s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Status: resp.StatusCode, Message: errorMessage(resp.StatusCode, data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("api.%s %s: decode: %w", method, path, err)
	}
	return nil
}

// errorMessage: поле message, затем error, затем текст статуса.
func errorMessage(status int, data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return DefaultErrorMessage
}

// loginPath — единственный запрос, который уходит без bearer-токена.
const loginPath = "/auth/login"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse — ответ POST /auth/login.
type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login получает токен и сохраняет его в хранилище.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, loginPath, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	if c.tokens != nil {
		if err := c.tokens.SetToken(ctx, resp.Token); err != nil {
			return nil, fmt.Errorf("api.Login: save token: %w", err)
		}
	}
	return &resp, nil
}

// Logout удаляет сохранённый токен. Сервер сессий не хранит.
func (c *Client) Logout(ctx context.Context) error {
	if c.tokens == nil {
		return nil
	}
	return c.tokens.DeleteToken(ctx)
}

func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

type profileRequest struct {
	Name            string `json:"name,omitempty"`
	Email           string `json:"email,omitempty"`
	Avatar          string `json:"avatar,omitempty"`
	CurrentPassword string `json:"currentPassword,omitempty"`
	NewPassword     string `json:"newPassword,omitempty"`
}

// UpdateProfile — PUT /users/profile; при заданном AvatarFile уходит multipart-формой.
func (c *Client) UpdateProfile(ctx context.Context, in model.ProfileInput) (*model.User, error) {
	var u model.User
	if in.AvatarFile == "" {
		req := profileRequest{
			Name:            in.Name,
			Email:           in.Email,
			Avatar:          in.Avatar,
			CurrentPassword: in.CurrentPassword,
			NewPassword:     in.NewPassword,
		}
		if err := c.do(ctx, http.MethodPut, "/users/profile", req, &u); err != nil {
			return nil, err
		}
		return &u, nil
	}

	body, contentType, err := profileForm(in)
	if err != nil {
		return nil, fmt.Errorf("api.UpdateProfile: %w", err)
	}
	if err := c.doRaw(ctx, http.MethodPut, "/users/profile", body, contentType, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Chats(ctx context.Context) ([]model.Chat, error) {
	var chats []model.Chat
	if err := c.do(ctx, http.MethodGet, "/chats", nil, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

type createChatRequest struct {
	Name    string   `json:"name"`
	UserIDs []string `json:"userIds"`
}

func (c *Client) CreateChat(ctx context.Context, name string, userIDs []string) (*model.Chat, error) {
	var chat model.Chat
	if err := c.do(ctx, http.MethodPost, "/chats", createChatRequest{Name: name, UserIDs: userIDs}, &chat); err != nil {
		return nil, err
	}
	return &chat, nil
}

func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, http.MethodDelete, "/chats/"+url.PathEscape(chatID), nil, nil)
}

func (c *Client) Messages(ctx context.Context, chatID string) ([]model.Message, error) {
	var msgs []model.Message
	if err := c.do(ctx, http.MethodGet, "/chats/"+url.PathEscape(chatID)+"/messages", nil, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*model.Message, error) {
	var m model.Message
	if err := c.do(ctx, http.MethodPost, "/chats/"+url.PathEscape(chatID)+"/messages", sendMessageRequest{Text: text}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) MarkAsRead(ctx context.Context, chatID, messageID string) error {
	path := "/chats/" + url.PathEscape(chatID) + "/messages/" + url.PathEscape(messageID) + "/read"
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// Users — каталог пользователей (GET /admin/users, только для администраторов).
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type userRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	IsAdmin  bool   `json:"isAdmin"`
}

func toUserRequest(in model.UserInput) userRequest {
	return userRequest{Name: in.Name, Email: in.Email, Password: in.Password, IsAdmin: in.IsAdmin}
}

func (c *Client) CreateUser(ctx context.Context, in model.UserInput) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPost, "/admin/users", toUserRequest(in), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id string, in model.UserInput) (*model.User, error) {
	var u model.User
	if err := c.do(ctx, http.MethodPut, "/admin/users/"+url.PathEscape(id), toUserRequest(in), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+url.PathEscape(id), nil, nil)
}

func profileForm(in model.ProfileInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":            in.Name,
		"email":           in.Email,
		"currentPassword": in.CurrentPassword,
		"newPassword":     in.NewPassword,
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if err := attachFile(mw, "avatar", in.AvatarFile); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
