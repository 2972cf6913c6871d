// Package file хранит токен в JSON-файле в каталоге настроек пользователя.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

type document struct {
	AuthToken string `json:"authToken"`
}

type Client struct {
	mu   sync.Mutex
	path string
}

func New(path string) (*Client, error) {
	if path == "" {
		return nil, errors.New("file token store: empty path")
	}
	return &Client{path: path}, nil
}

func (c *Client) Close() error { return nil }

// Path возвращает путь к файлу токена.
func (c *Client) Path() string { return c.path }

func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse token file %s: %w", c.path, err)
	}
	return doc.AuthToken, nil
}

// SetToken пишет файл атомарно (через временный файл) с правами 0600.
func (c *Client) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("token dir: %w", err)
	}
	data, err := json.Marshal(document{AuthToken: token})
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(c.path), ".token-*")
	if err != nil {
		return fmt.Errorf("token temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write token: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close token: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (c *Client) DeleteToken(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}
