// Package redis wraps the go-redis client used for session token revocation
// and, optionally, as the mirror backend.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mykitchen/kitchen/config"
	"github.com/mykitchen/kitchen/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "revoked:"

// Client is a redis connection with token revocation helpers.
type Client struct {
	*redis.Client
}

// Connect opens a connection and pings it.
func Connect(cfg *config.RedisConfig) (*Client, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return &Client{Client: rdb}, nil
}

// Wrap adopts an existing go-redis client.
func Wrap(rdb *redis.Client) *Client {
	return &Client{Client: rdb}
}

// Close closes the connection. It is safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.Client == nil {
		return nil
	}
	logger.Info("Closing Redis connection", nil)
	return c.Client.Close()
}

// RevokeToken marks token as signed out until ttl elapses.
func (c *Client) RevokeToken(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	logger.Debug("Revoking session token", map[string]interface{}{
		"ttl": ttl.String(),
	})

	if err := c.Set(ctx, revokedPrefix+token, "1", ttl).Err(); err != nil {
		logger.Error("Failed to revoke session token", err, nil)
		return err
	}
	return nil
}

// IsTokenRevoked reports whether token was signed out.
func (c *Client) IsTokenRevoked(ctx context.Context, token string) (bool, error) {
	err := c.Get(ctx, revokedPrefix+token).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token revocation", err, nil)
		return false, err
	}
	return true, nil
}
