package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/pdfqa/internal/data/redisStore"
	"github.com/akolanti/pdfqa/internal/data/store"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func lockers(t *testing.T) map[string]jobModel.IndexLocker {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]jobModel.IndexLocker{
		"in-memory": store.InitInMemoryLockStore(),
		"redis":     store.GetRedisLockStore(redisStore.NewTestStore(client), time.Minute),
	}
}

func TestLockStore_MutualExclusion(t *testing.T) {
	for name, locker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			var inside, maxInside int32
			var wg sync.WaitGroup

			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					release, err := locker.Acquire(ctx, "report.pdf")
					if err != nil {
						t.Errorf("Acquire: %v", err)
						return
					}
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					release()
				}()
			}
			wg.Wait()

			if maxInside != 1 {
				t.Errorf("expected at most one holder, saw %d", maxInside)
			}
		})
	}
}

func TestLockStore_KeysAreIndependent(t *testing.T) {
	for name, locker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			releaseA, err := locker.Acquire(ctx, "a.pdf")
			if err != nil {
				t.Fatalf("Acquire a: %v", err)
			}
			defer releaseA()

			ctxB, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			releaseB, err := locker.Acquire(ctxB, "b.pdf")
			if err != nil {
				t.Fatalf("a different document must not wait: %v", err)
			}
			releaseB()
		})
	}
}

func TestLockStore_ContextCancelled(t *testing.T) {
	for name, locker := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			release, err := locker.Acquire(context.Background(), "busy.pdf")
			if err != nil {
				t.Fatalf("Acquire: %v", err)
			}
			defer release()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			if _, err := locker.Acquire(ctx, "busy.pdf"); !errors.Is(err, context.DeadlineExceeded) {
				t.Errorf("expected deadline exceeded, got %v", err)
			}
		})
	}
}

func TestInMemoryLockStore_ReleaseIsIdempotent(t *testing.T) {
	locker := store.InitInMemoryLockStore()
	release, err := locker.Acquire(context.Background(), "x.pdf")
	if err != nil {
		t.Fatal(err)
	}
	release()
	release()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	again, err := locker.Acquire(ctx, "x.pdf")
	if err != nil {
		t.Fatalf("lock should be free after release: %v", err)
	}
	again()
}
