package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "ERROR"

	IngestInit       InternalStatus = "IngestInit"
	LockWait         InternalStatus = "LockWait"
	ExtractCall      InternalStatus = "Extract"
	EmbeddingAPICall InternalStatus = "EmbeddingAPI"
	VectorDBCall     InternalStatus = "VectorDB"
	LLMCall          InternalStatus = "LLM"
	Complete         InternalStatus = "Complete"
)

// Job is one document's index build.
type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"-"`
	DocName     string         `json:"document"`
	DocPath     string         `json:"-"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"step,omitempty"`
	Chunks      int            `json:"chunks"`
	Error       *JobError      `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`

	Err error `json:"-"`
}

type JobError struct {
	Step    InternalStatus `json:"step"`
	Message string         `json:"message"`
}

// BuildReport lists one Job per document, in the order the documents were given.
type BuildReport []Job

func (r BuildReport) Failed() int {
	n := 0
	for _, j := range r {
		if j.Status == JobStatusError {
			n++
		}
	}
	return n
}

// FirstError is the error of the first failed job, or nil.
func (r BuildReport) FirstError() error {
	for _, j := range r {
		if j.Status == JobStatusError {
			return j.Err
		}
	}
	return nil
}

// IndexLocker serialises index writes per key.
// Acquire blocks until the lock is held or ctx is done.
type IndexLocker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
