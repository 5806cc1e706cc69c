package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/pdfqa/internal/domain/jobModel"
)

func makeJobs(n int) []jobModel.Job {
	jobs := make([]jobModel.Job, n)
	for i := range jobs {
		jobs[i] = jobModel.Job{Id: fmt.Sprint(i), DocName: fmt.Sprintf("doc-%d.pdf", i), Status: jobModel.JobStatusQueued}
	}
	return jobs
}

func TestPool_RunKeepsOrder(t *testing.T) {
	pool := NewPool(3)
	jobs := makeJobs(10)

	report := pool.Run(context.Background(), jobs, func(ctx context.Context, j jobModel.Job) jobModel.Job {
		// later jobs finish first
		id := 0
		fmt.Sscan(j.Id, &id)
		time.Sleep(time.Duration(10-id) * time.Millisecond)
		j.Status = jobModel.JobStatusComplete
		j.Chunks = id
		return j
	})

	if len(report) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(report))
	}
	for i, r := range report {
		if r.DocName != jobs[i].DocName || r.Chunks != i {
			t.Errorf("result %d out of order: %+v", i, r)
		}
		if r.EndTime.IsZero() {
			t.Errorf("result %d has no end time", i)
		}
	}
}

func TestPool_Bounded(t *testing.T) {
	pool := NewPool(2)
	var running, peak int32

	pool.Run(context.Background(), makeJobs(8), func(ctx context.Context, j jobModel.Job) jobModel.Job {
		n := atomic.AddInt32(&running, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		j.Status = jobModel.JobStatusComplete
		return j
	})

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent builds, saw %d", peak)
	}
}

func TestPool_FailureDoesNotStopOthers(t *testing.T) {
	pool := NewPool(1)
	boom := errors.New("embedding failed")

	report := pool.Run(context.Background(), makeJobs(3), func(ctx context.Context, j jobModel.Job) jobModel.Job {
		if j.Id == "1" {
			return failJob(j, boom)
		}
		j.Status = jobModel.JobStatusComplete
		return j
	})

	if report.Failed() != 1 {
		t.Fatalf("expected 1 failure, got %d", report.Failed())
	}
	if report[2].Status != jobModel.JobStatusComplete {
		t.Errorf("job after the failure was not built: %+v", report[2])
	}
	if !errors.Is(report.FirstError(), boom) {
		t.Errorf("FirstError = %v", report.FirstError())
	}
}

func TestPool_PanicBecomesFailure(t *testing.T) {
	report := NewPool(1).Run(context.Background(), makeJobs(1), func(ctx context.Context, j jobModel.Job) jobModel.Job {
		panic("bad page")
	})
	if report[0].Status != jobModel.JobStatusError || report[0].Error == nil {
		t.Errorf("expected failed job, got %+v", report[0])
	}
}

func TestPool_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	report := NewPool(2).Run(ctx, makeJobs(3), func(ctx context.Context, j jobModel.Job) jobModel.Job {
		atomic.AddInt32(&calls, 1)
		return j
	})

	if calls != 0 {
		t.Errorf("no build should start after cancellation, got %d", calls)
	}
	if !errors.Is(report.FirstError(), context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", report.FirstError())
	}
}
