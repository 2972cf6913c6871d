package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/messenger/frontend/internal/config"
	"github.com/messenger/frontend/internal/storage/file"
	"github.com/messenger/frontend/internal/storage/memory"
	"github.com/messenger/frontend/internal/storage/redis"
)

// TokenStore — хранилище bearer-токена клиента (аналог localStorage браузера).
// Реализации: file.Client (по умолчанию), memory.Client, redis.Client (общий токен для нескольких процессов).
// Token возвращает "" без ошибки, если токена нет.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	DeleteToken(ctx context.Context) error
	Close() error
}

// redisConnectWait — сколько ждать Redis при запуске клиента.
const redisConnectWait = 10 * time.Second

// Open выбирает хранилище по конфигурации.
func Open(ctx context.Context, cfg config.TokenStoreConfig) (TokenStore, error) {
	switch cfg.Kind {
	case "", "file":
		return file.New(cfg.Path)
	case "memory":
		return memory.New(), nil
	case "redis":
		return redis.Connect(ctx, cfg.RedisURL, cfg.Namespace, redisConnectWait)
	}
	return nil, fmt.Errorf("storage: unknown token store %q", cfg.Kind)
}
