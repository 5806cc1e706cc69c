package redisStore

import (
	"context"
	"fmt"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/redis/go-redis/v9"
)

type Store struct {
	client *redis.Client
	logger *logger_i.Logger
	Type   int
}

// NewStore connects and pings. The caller owns the returned store and closes it.
func NewStore(ctx context.Context, addr string, dbType int) (*Store, error) {
	newClient := redis.NewClient(&redis.Options{
		Addr:                  addr,
		DB:                    dbType,
		ContextTimeoutEnabled: true,
		ReadTimeout:           config.RedisTimeout,
		WriteTimeout:          config.RedisTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, config.RedisTimeout)
	defer cancel()
	if err := newClient.Ping(pingCtx).Err(); err != nil {
		_ = newClient.Close()
		return nil, fmt.Errorf("redis is offline at %s: %w", addr, err)
	}

	logger := logger_i.NewLogger("Redis Store")
	logger.Info("Redis client init successfully", "addr", addr, "db", dbType)
	return &Store{client: newClient, logger: logger, Type: dbType}, nil
}

func (s *Store) Close() error {
	s.logger.Info("Closing Redis Store")
	return s.client.Close()
}

func NewTestStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		logger: logger_i.NewLogger("test redis"),
	}
}
