package store

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/data/redisStore"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/google/uuid"
)

// RedisLockStore lets several processes sharing one index directory
// take turns rebuilding the same document.
type RedisLockStore struct {
	store  *redisStore.Store
	ttl    time.Duration
	poll   time.Duration
	logger *logger_i.Logger
}

var _ jobModel.IndexLocker = (*RedisLockStore)(nil)

func GetRedisLockStore(store *redisStore.Store, ttl time.Duration) *RedisLockStore {
	if ttl <= 0 {
		ttl = config.LockTTL
	}
	return &RedisLockStore{
		store:  store,
		ttl:    ttl,
		poll:   config.LockPollInterval,
		logger: logger_i.NewLogger("LockStore"),
	}
}

func (s *RedisLockStore) Acquire(ctx context.Context, key string) (func(), error) {
	lockKey := config.LockKeyPrefix + key
	token := uuid.NewString()
	log := s.logger.WithTrace(ctx).With("key", lockKey)

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		ok, err := s.store.SetNX(ctx, lockKey, token, s.ttl)
		if err != nil {
			return nil, fmt.Errorf("acquiring lock %s: %w", lockKey, err)
		}
		if ok {
			log.Debug("lock acquired")
			return func() { s.release(lockKey, token, log) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// release runs on its own context so a cancelled request still frees the lock.
func (s *RedisLockStore) release(lockKey, token string, log *logger_i.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), config.RedisTimeout)
	defer cancel()
	deleted, err := s.store.CompareAndDelete(ctx, lockKey, token)
	if err != nil {
		log.Error("Error releasing lock", "error", err)
		return
	}
	if !deleted {
		log.Warn("lock expired before release")
		return
	}
	log.Debug("lock released")
}
