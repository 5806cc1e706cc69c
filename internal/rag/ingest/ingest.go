package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/data/store"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/internal/metrics"
	"github.com/akolanti/pdfqa/internal/rag/embedding"
	"github.com/akolanti/pdfqa/internal/rag/vectorDB"
	"github.com/akolanti/pdfqa/internal/worker"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/google/uuid"
)

type BuilderConfig struct {
	Embedder     embedding.Embedder
	Store        vectorDB.IndexStore
	Locker       jobModel.IndexLocker
	Pool         *worker.Pool
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
}

// Builder turns PDF documents into persisted per-document indexes.
// Documents are independent: there is no rollback across documents.
type Builder struct {
	embedder     embedding.Embedder
	store        vectorDB.IndexStore
	locker       jobModel.IndexLocker
	pool         *worker.Pool
	chunkSize    int
	chunkOverlap int
	batchSize    int
	extract      func(content []byte, logger *logger_i.Logger) ([]rawPage, error)
	logger       *logger_i.Logger
}

func NewBuilder(cfg BuilderConfig) *Builder {
	b := &Builder{
		embedder:     cfg.Embedder,
		store:        cfg.Store,
		locker:       cfg.Locker,
		pool:         cfg.Pool,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		batchSize:    cfg.BatchSize,
		extract:      extractPDF,
		logger:       logger_i.NewLogger("Document Ingestion"),
	}
	if b.locker == nil {
		b.locker = store.InitInMemoryLockStore()
	}
	if b.pool == nil {
		b.pool = worker.NewPool(config.RebuildWorkerCount)
	}
	if b.chunkSize <= 0 {
		b.chunkSize = config.MaxChunkSize
	}
	if b.batchSize <= 0 {
		b.batchSize = config.EmbeddingBatchSize
	}
	return b
}

// Build rebuilds the index of a single document and returns its chunk count.
func (b *Builder) Build(ctx context.Context, doc commonModels.Document) (int, error) {
	report, err := b.BuildAll(ctx, []commonModels.Document{doc})
	if len(report) == 0 {
		return 0, err
	}
	return report[0].Chunks, err
}

// BuildAll attempts every document and reports each one in input order.
// The returned error is the first failure, if any.
func (b *Builder) BuildAll(ctx context.Context, docs []commonModels.Document) (jobModel.BuildReport, error) {
	if len(docs) == 0 {
		return nil, commonModels.NotFoundError(MsgNoPDFs)
	}

	traceId, _ := ctx.Value(config.TRACE_ID_KEY).(string)
	jobs := make([]jobModel.Job, len(docs))
	byJob := make(map[string]commonModels.Document, len(docs))
	for i, doc := range docs {
		jobs[i] = jobModel.Job{
			Id:          uuid.NewString(),
			TraceId:     traceId,
			DocName:     doc.Name,
			DocPath:     doc.Path,
			Status:      jobModel.JobStatusQueued,
			CurrentStep: jobModel.IngestInit,
			CreatedTime: time.Now(),
		}
		byJob[jobs[i].Id] = doc
	}

	report := b.pool.Run(ctx, jobs, func(ctx context.Context, job jobModel.Job) jobModel.Job {
		chunks, err := b.build(ctx, byJob[job.Id], &job.CurrentStep)
		job.Chunks = chunks
		if err != nil {
			job.Status = jobModel.JobStatusError
			job.Err = err
			job.Error = &jobModel.JobError{Step: job.CurrentStep, Message: commonModels.Detail(err, err.Error())}
			return job
		}
		job.Status = jobModel.JobStatusComplete
		job.CurrentStep = jobModel.Complete
		return job
	})

	if failed := report.Failed(); failed > 0 {
		b.logger.WithTrace(ctx).Warn("Rebuild finished with failures", "documents", len(report), "failed", failed)
	}
	return report, report.FirstError()
}

// build runs chunk, embed and persist for one document under its lock.
func (b *Builder) build(ctx context.Context, doc commonModels.Document, step *jobModel.InternalStatus) (int, error) {
	log := b.logger.WithTrace(ctx).With("document", doc.Name)

	if err := commonModels.ValidateDocName(doc.Name); err != nil {
		return 0, err
	}

	*step = jobModel.LockWait
	release, err := b.locker.Acquire(ctx, doc.Name)
	if err != nil {
		return 0, fmt.Errorf("waiting for index lock of %s: %w", doc.Name, err)
	}
	defer release()

	*step = jobModel.ExtractCall
	content := doc.Content
	if content == nil {
		content, err = os.ReadFile(doc.Path)
		if err != nil {
			return 0, fmt.Errorf("reading %s: %w", doc.Path, err)
		}
	}

	pages, err := b.extract(content, log)
	if err != nil {
		return 0, &commonModels.Error{
			Kind:    commonModels.KindValidation,
			Message: fmt.Sprintf("Could not read %s as a PDF.", doc.Name),
			Err:     err,
		}
	}
	log.Debug("Processing document", "pages", len(pages))

	chunks := PrepareChunks(pages, doc.Name, b.chunkSize, b.chunkOverlap, time.Now().UTC())
	if len(chunks) == 0 {
		return 0, commonModels.ValidationError(fmt.Sprintf("No extractable text in %s.", doc.Name))
	}
	log.Debug("Processing document", "chunks", len(chunks))

	*step = jobModel.EmbeddingAPICall
	vectors, err := BatchIngest(ctx, chunks, b.embedder, b.batchSize)
	if err != nil {
		return 0, commonModels.UpstreamError("Embedding request failed.", err)
	}

	*step = jobModel.VectorDBCall
	start := time.Now()
	err = b.store.Replace(ctx, doc.Name, chunks, vectors)
	metrics.CaptureExecutionMetrics("vectorDB", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("persisting index for %s: %w", doc.Name, err)
	}

	log.Info("Index rebuilt", "chunks", len(chunks))
	return len(chunks), nil
}
