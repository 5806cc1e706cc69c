package rag

import (
	"context"
	"time"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/internal/metrics"
	"github.com/akolanti/pdfqa/internal/rag/ingest"
	"github.com/akolanti/pdfqa/internal/rag/llm"
	"github.com/akolanti/pdfqa/pkg/logger_i"
)

// Service is what the transports (http, mcp, cli, watcher) call. The
// implementation stays private so callers only see behaviour and tests can
// swap the dependencies behind NewService.
type Service interface {
	// RebuildAll indexes every PDF in the documents directory.
	RebuildAll(ctx context.Context) (jobModel.BuildReport, error)
	// RebuildDocument indexes a single PDF of the documents directory.
	RebuildDocument(ctx context.Context, name string) (jobModel.Job, error)
	// Answer replies to the last user message of conversation using docName's index.
	Answer(ctx context.Context, docName string, conversation []commonModels.Message) (string, error)
	// AnswerWithSources is Answer plus the chunks the reply was grounded on.
	AnswerWithSources(ctx context.Context, docName string, conversation []commonModels.Message) (Answer, error)
}

// IndexBuilder is satisfied by *ingest.Builder.
type IndexBuilder interface {
	BuildAll(ctx context.Context, docs []commonModels.Document) (jobModel.BuildReport, error)
}

type Answer struct {
	Response string                  `json:"response"`
	Sources  []commonModels.DocChunk `json:"sources"`
}

type service struct {
	builder        IndexBuilder
	retriever      *Retriever
	llmProvider    llm.Provider
	documentsDir   string
	requestTimeout time.Duration
	logger         *logger_i.Logger
}

func NewService(builder IndexBuilder, retriever *Retriever, llmProvider llm.Provider, settings *config.Settings) Service {
	return &service{
		builder:        builder,
		retriever:      retriever,
		llmProvider:    llmProvider,
		documentsDir:   settings.DocumentsDir,
		requestTimeout: settings.RequestTimeout,
		logger:         logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) RebuildAll(ctx context.Context) (jobModel.BuildReport, error) {
	log := s.logger.WithTrace(ctx)

	docs, err := ingest.FindPDFs(s.documentsDir)
	if err != nil {
		log.Warn("No documents to index", "dir", s.documentsDir, "error", err)
		return nil, err
	}

	log.Info("Rebuilding indexes", "documents", len(docs))
	return s.builder.BuildAll(ctx, docs)
}

func (s *service) RebuildDocument(ctx context.Context, name string) (jobModel.Job, error) {
	doc, err := ingest.LoadDocument(s.documentsDir, name)
	if err != nil {
		return jobModel.Job{DocName: name, Status: jobModel.JobStatusError}, err
	}

	report, err := s.builder.BuildAll(ctx, []commonModels.Document{doc})
	if len(report) == 0 {
		return jobModel.Job{DocName: name, Status: jobModel.JobStatusError}, err
	}
	return report[0], err
}

func (s *service) Answer(ctx context.Context, docName string, conversation []commonModels.Message) (string, error) {
	answer, err := s.AnswerWithSources(ctx, docName, conversation)
	return answer.Response, err
}

func (s *service) AnswerWithSources(ctx context.Context, docName string, conversation []commonModels.Message) (answer Answer, err error) {
	log := s.logger.WithTrace(ctx).With("document", docName)

	start := time.Now()
	defer func() {
		metrics.CaptureAnswerMetrics(answerStatus(err), time.Since(start))
	}()

	// a missing index is reported before any problem with the conversation
	if err = commonModels.ValidateDocName(docName); err != nil {
		return Answer{}, err
	}
	if err = s.retriever.EnsureIndex(ctx, docName); err != nil {
		return Answer{}, s.stepError(log, "RETRIEVAL_FAILURE", err)
	}
	if err = commonModels.ValidateConversation(conversation); err != nil {
		return Answer{}, err
	}

	processContext := ctx
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		processContext, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	query := conversation[len(conversation)-1].Content

	contextText, sources, err := s.executeRetrievalStep(processContext, log, docName, query)
	if err != nil {
		return Answer{}, s.stepError(log, "RETRIEVAL_FAILURE", err)
	}

	messages, err := AssemblePrompt(contextText, conversation)
	if err != nil {
		return Answer{}, s.stepError(log, "PROMPT_FAILURE", err)
	}

	reply, err := s.executeLLMStep(processContext, log, messages)
	if err != nil {
		return Answer{}, s.stepError(log, "LLM_GENERATION_FAILURE", err)
	}

	return Answer{Response: reply, Sources: sources}, nil
}
