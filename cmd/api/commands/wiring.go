package commands

import (
	"context"
	"fmt"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/customHttpClient"
	"github.com/akolanti/pdfqa/internal/data/redisStore"
	"github.com/akolanti/pdfqa/internal/data/store"
	"github.com/akolanti/pdfqa/internal/domain/jobModel"
	"github.com/akolanti/pdfqa/internal/rag"
	"github.com/akolanti/pdfqa/internal/rag/embedding"
	"github.com/akolanti/pdfqa/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/pdfqa/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/pdfqa/internal/rag/ingest"
	"github.com/akolanti/pdfqa/internal/rag/llm"
	"github.com/akolanti/pdfqa/internal/rag/llm/gemini"
	"github.com/akolanti/pdfqa/internal/rag/llm/openaiLLM"
	"github.com/akolanti/pdfqa/internal/rag/vectorDB"
	"github.com/akolanti/pdfqa/internal/rag/vectorDB/localDB"
	"github.com/akolanti/pdfqa/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/pdfqa/internal/worker"
	"github.com/akolanti/pdfqa/pkg/logger_i"
)

// newService builds the rag service for s. The returned func releases the
// store and redis connections.
func newService(ctx context.Context, s *config.Settings) (rag.Service, func(), error) {
	logger := logger_i.NewLogger("main")
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Error closing service", "error", err)
			}
		}
	}

	embedder, llmProvider, err := newProviders(ctx, s)
	if err != nil {
		return nil, nil, err
	}

	indexStore, err := newIndexStore(s)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, indexStore.Close)

	locker, closeLocker := newLocker(ctx, s, logger)
	if closeLocker != nil {
		closers = append(closers, closeLocker)
	}

	builder := ingest.NewBuilder(ingest.BuilderConfig{
		Embedder:     embedder,
		Store:        indexStore,
		Locker:       locker,
		Pool:         worker.NewPool(s.Workers),
		ChunkSize:    s.ChunkSize,
		ChunkOverlap: s.ChunkOverlap,
		BatchSize:    s.BatchSize,
	})
	retriever := rag.NewRetriever(embedder, indexStore, s.TopK)

	logger.Debug("Available services", "provider", s.Provider, "vectorStore", s.VectorStore, "redisLock", s.RedisAddr != "")
	return rag.NewService(builder, retriever, llmProvider, s), closeAll, nil
}

func newProviders(ctx context.Context, s *config.Settings) (embedding.Embedder, llm.Provider, error) {
	hc := customHttpClient.NewClient()

	switch s.Provider {
	case config.ProviderGemini:
		embedder, err := googleEmbedding.GetGoogleEmbeddingClient(ctx, s.EmbeddingModel, s.APIKey, s.EmbeddingDimensions, hc)
		if err != nil {
			return nil, nil, fmt.Errorf("init embedding client: %w", err)
		}
		llmProvider, err := gemini.GetGeminiClient(ctx, s.APIKey, s.ChatModel, hc)
		if err != nil {
			return nil, nil, fmt.Errorf("init llm client: %w", err)
		}
		return embedder, llmProvider, nil
	default:
		embedder := openaiEmbedding.NewOpenAIEmbeddingClient(openaiEmbedding.Config{
			APIKey:     s.APIKey,
			Model:      s.EmbeddingModel,
			Dimensions: s.EmbeddingDimensions,
			HTTPClient: hc,
		})
		llmProvider := openaiLLM.NewOpenAIClient(openaiLLM.Config{
			APIKey:     s.APIKey,
			Model:      s.ChatModel,
			HTTPClient: hc,
		})
		return embedder, llmProvider, nil
	}
}

func newIndexStore(s *config.Settings) (vectorDB.IndexStore, error) {
	if s.VectorStore == config.VectorStoreQdrant {
		client, err := qdrantDB.GetQuadrantClient(qdrantDB.Config{
			Host:   s.Qdrant.Host,
			Port:   s.Qdrant.Port,
			APIKey: s.Qdrant.APIKey,
			UseTLS: s.Qdrant.UseTLS,
		})
		if err != nil {
			return nil, fmt.Errorf("init qdrant: %w", err)
		}
		return client, nil
	}

	localStore, err := localDB.NewStore(s.IndexDir)
	if err != nil {
		return nil, fmt.Errorf("init local index store: %w", err)
	}
	return localStore, nil
}

// newLocker prefers the redis lock so several processes sharing an index
// directory serialise rebuilds; an unreachable redis falls back to the
// in-process lock.
func newLocker(ctx context.Context, s *config.Settings, logger *logger_i.Logger) (jobModel.IndexLocker, func() error) {
	if s.RedisAddr == "" {
		return store.InitInMemoryLockStore(), nil
	}
	rs, err := redisStore.NewStore(ctx, s.RedisAddr, config.RedisLockDB)
	if err != nil {
		logger.Error("Redis lock store is offline, using in-memory locks", "error", err)
		return store.InitInMemoryLockStore(), nil
	}
	return store.GetRedisLockStore(rs, s.LockTTL), rs.Close
}
