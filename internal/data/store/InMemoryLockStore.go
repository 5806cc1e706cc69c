package store

import (
	"context"
	"sync"

	"github.com/akolanti/pdfqa/internal/domain/jobModel"
)

// InMemoryLockStore serialises builds of the same document within one process.
type InMemoryLockStore struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

var _ jobModel.IndexLocker = (*InMemoryLockStore)(nil)

func InitInMemoryLockStore() *InMemoryLockStore {
	return &InMemoryLockStore{
		locks: make(map[string]chan struct{}),
	}
}

func (s *InMemoryLockStore) Acquire(ctx context.Context, key string) (func(), error) {
	s.mu.Lock()
	slot, ok := s.locks[key]
	if !ok {
		slot = make(chan struct{}, 1)
		s.locks[key] = slot
	}
	s.mu.Unlock()

	select {
	case slot <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-slot }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
