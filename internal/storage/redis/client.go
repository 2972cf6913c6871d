package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix — ключ токена: auth_token:{namespace}.
const KeyPrefix = "auth_token:"

type Client struct {
	cli *redis.Client
	key string
}

func New(ctx context.Context, url, namespace string) (*Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis parse url: %w", err)
	}
	cli := redis.NewClient(opts)
	if err := cli.Ping(ctx).Err(); err != nil {
		if closeErr := cli.Close(); closeErr != nil {
			return nil, fmt.Errorf("redis ping: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	if namespace == "" {
		namespace = "default"
	}
	return &Client{cli: cli, key: KeyPrefix + namespace}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

// Token возвращает сохранённый токен; отсутствие ключа не ошибка.
func (c *Client) Token(ctx context.Context) (string, error) {
	val, err := c.cli.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// SetToken сохраняет токен без TTL: срок жизни определяет сервер.
func (c *Client) SetToken(ctx context.Context, token string) error {
	return c.cli.Set(ctx, c.key, token, 0).Err()
}

func (c *Client) DeleteToken(ctx context.Context) error {
	return c.cli.Del(ctx, c.key).Err()
}
