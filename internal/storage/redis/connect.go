package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/messenger/frontend/internal/logger"
)

// Connect подключается с повторами и удвоением паузы (от 500ms до 5s),
// пока не истечёт maxWait или ctx.
func Connect(ctx context.Context, url, namespace string, maxWait time.Duration) (*Client, error) {
	deadline := time.Now().Add(maxWait)
	backoff := 500 * time.Millisecond
	for {
		attemptCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		client, err := New(attemptCtx, url, namespace)
		cancel()
		if err == nil {
			return client, nil
		}
		if time.Now().Add(backoff).After(deadline) {
			return nil, fmt.Errorf("redis (gave up after %v): %w", maxWait, err)
		}
		logger.Errorf("redis connect failed, retry in %v: %v", backoff, err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("redis connect: %w", ctx.Err())
		case <-time.After(backoff):
		}
		if backoff < 5*time.Second {
			backoff *= 2
		}
	}
}
