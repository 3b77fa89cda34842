package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis wraps a Redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis opens and verifies a Redis connection.
func NewRedis(addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{Client: client}, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.Client.Close()
}

// Ping checks Redis availability.
func (r *Redis) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}
