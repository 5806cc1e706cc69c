package rag

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/internal/metrics"
	"github.com/akolanti/pdfqa/pkg/logger_i"
)

// stepError logs failures that are not the caller's fault. Client errors pass through quietly.
func (s *service) stepError(log *logger_i.Logger, message string, err error) error {
	if errors.Is(err, commonModels.ErrNotFound) || errors.Is(err, commonModels.ErrValidation) {
		log.Debug(message, "error", err)
		return err
	}
	log.Error(message, "error", err)
	return err
}

func answerStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, commonModels.ErrValidation), errors.Is(err, commonModels.ErrNotFound):
		return "rejected"
	default:
		return "error"
	}
}

func (s *service) executeRetrievalStep(ctx context.Context, log *logger_i.Logger, docName string, query string) (string, []commonModels.DocChunk, error) {
	log.Debug("Answer", "Current Status", jobModel.VectorDBCall)
	contextText, sources, err := s.retriever.Retrieve(ctx, docName, query)
	if err != nil {
		return "", nil, err
	}
	log.Debug("Retrieved context", "chunks", len(sources))
	return contextText, sources, nil
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, messages []commonModels.Message) (string, error) {
	log.Debug("Answer", "Current Status", jobModel.LLMCall)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	reply, err := s.llmProvider.Complete(ctx, messages)
	if err != nil {
		return "", commonModels.UpstreamError("Completion request failed.", err)
	}
	return reply, nil
}
