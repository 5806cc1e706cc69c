package worker

import (
	"context"
	"sync"

	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/internal/metrics"
	"github.com/akolanti/pdfqa/pkg/logger_i"
)

// BuildFunc runs one document build and returns the finished job.
type BuildFunc func(ctx context.Context, job jobModel.Job) jobModel.Job

// Pool runs document builds on a bounded number of goroutines.
type Pool struct {
	size   int
	logger *logger_i.Logger
}

func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		size:   size,
		logger: logger_i.NewLogger("WorkerPool"),
	}
}

// Run executes build for every job and returns the results in input order.
// Every job is attempted; a cancelled ctx surfaces as a failed job.
func (p *Pool) Run(ctx context.Context, jobs []jobModel.Job, build BuildFunc) jobModel.BuildReport {
	results := make(jobModel.BuildReport, len(jobs))
	if len(jobs) == 0 {
		return results
	}

	workerCount := min(p.size, len(jobs))
	jobChannel := make(chan int)
	var workerWaitGroup sync.WaitGroup

	p.logger.WithTrace(ctx).Debug("Starting workers", "workers", workerCount, "jobs", len(jobs))
	for range workerCount {
		workerWaitGroup.Add(1)
		go p.worker(ctx, &workerWaitGroup, jobChannel, jobs, results, build)
	}

	for i := range jobs {
		jobChannel <- i
	}
	close(jobChannel)
	workerWaitGroup.Wait()
	return results
}

func (p *Pool) worker(ctx context.Context, wg *sync.WaitGroup, jobChannel <-chan int, jobs []jobModel.Job, results jobModel.BuildReport, build BuildFunc) {
	defer wg.Done()
	metrics.IncrementActiveWorkerCount()
	defer metrics.DecrementActiveWorkerCount()

	for i := range jobChannel {
		results[i] = p.executeJob(ctx, jobs[i], build)
	}
}
