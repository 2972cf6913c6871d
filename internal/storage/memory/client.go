package memory

import (
	"context"
	"sync"
)

// Client держит токен в памяти процесса: после перезапуска нужен повторный вход.
type Client struct {
	mu    sync.RWMutex
	token string
}

func New() *Client {
	return &Client{}
}

func (c *Client) Close() error { return nil }

func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, nil
}

func (c *Client) SetToken(ctx context.Context, token string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	return nil
}

func (c *Client) DeleteToken(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	return nil
}
