package testkit

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// container is a started dependency and the endpoint tests connect to.
// ctr is nil when the endpoint was supplied externally.
type container struct {
	ctr      testcontainers.Container
	endpoint string
}

func (c *container) terminate(ctx context.Context) error {
	if c == nil || c.ctr == nil {
		return nil
	}
	return c.ctr.Terminate(ctx)
}

// startRedis starts the Redis container shared by the rates cache and the
// task queue, or returns the external address when one is configured.
// The returned endpoint is host:port, the form go-redis and asynq expect.
func startRedis(ctx context.Context, cfg Config) (*container, error) {
	if cfg.RedisAddr != "" {
		return &container{endpoint: cfg.RedisAddr}, nil
	}

	ctr, err := tcredis.Run(ctx, cfg.RedisImage)
	if err != nil {
		return nil, fmt.Errorf("start redis container: %w", err)
	}

	addr, err := ctr.Endpoint(ctx, "")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("redis endpoint: %w", err)
	}

	return &container{ctr: ctr, endpoint: addr}, nil
}
