package client

import (
	"context"
	"fmt"
	"time"

	"campus-merch-store/internal/config"

	"github.com/redis/go-redis/v9"
)

// InitRedisClient connects to redis. It returns nil without error when no
// address is configured; callers treat a nil client as "cache disabled".
func InitRedisClient(cfg *config.Redis) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}

	return rdb, nil
}
