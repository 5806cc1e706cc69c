package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/internal/metrics"
)

func (p *Pool) executeJob(ctx context.Context, job jobModel.Job, build BuildFunc) (done jobModel.Job) {
	if job.TraceId != "" {
		ctx = context.WithValue(ctx, config.TRACE_ID_KEY, job.TraceId)
	}
	log := p.logger.WithTrace(ctx).With("document", job.DocName, "job Id", job.Id)

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			done = failJob(job, fmt.Errorf("build panicked: %v", r))
		}
		done.EndTime = time.Now()
		metrics.CaptureIndexBuild(string(done.Status), done.Chunks)
		log.Info("Build finished", "status", done.Status, "chunks", done.Chunks, "elapsed", time.Since(start))
	}()

	if err := ctx.Err(); err != nil {
		return failJob(job, err)
	}

	job.Status = jobModel.JobStatusRunning
	log.Debug("Processing job")
	return build(ctx, job)
}

func failJob(job jobModel.Job, err error) jobModel.Job {
	job.Status = jobModel.JobStatusError
	job.Err = err
	job.Error = &jobModel.JobError{Step: job.CurrentStep, Message: err.Error()}
	return job
}
