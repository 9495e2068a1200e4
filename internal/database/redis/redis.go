package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"submission-service/internal/config"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// Client holds the connection backing the performance report cache.
type Client struct {
	client *redis.Client
}

// NewRedisClient connects with the configured address and database and fails
// when the server does not answer a ping.
func NewRedisClient(cfg config.RedisConfig) (*Client, error) {
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}

	slog.Info("Connected to Redis", "addr", addr, "db", cfg.DB)
	return &Client{client: client}, nil
}

// GetClient exposes the underlying go-redis client for repositories.
func (c *Client) GetClient() *redis.Client {
	return c.client
}

func (c *Client) Close() error {
	return c.client.Close()
}
