package rag

import (
	"context"
	"strings"
	"time"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/metrics"
	"github.com/akolanti/pdfqa/internal/rag/embedding"
	"github.com/akolanti/pdfqa/internal/rag/vectorDB"
)

// Retriever finds the chunks of one document's index closest to a query.
type Retriever struct {
	embedder embedding.Embedder
	store    vectorDB.IndexStore
	topK     int
}

func NewRetriever(embedder embedding.Embedder, store vectorDB.IndexStore, topK int) *Retriever {
	if topK <= 0 {
		topK = config.TopK
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// EnsureIndex returns a NotFound error when docName has no queryable index.
func (r *Retriever) EnsureIndex(ctx context.Context, docName string) error {
	exists, err := r.store.Exists(ctx, docName)
	if err != nil {
		return err
	}
	if !exists {
		return vectorDB.IndexNotFound()
	}
	return nil
}

// Retrieve returns the text of up to topK chunks, most similar first, joined
// with newlines, plus the chunks themselves. The index is checked before the
// query is embedded, so a missing index costs no embedding call.
func (r *Retriever) Retrieve(ctx context.Context, docName string, query string) (string, []commonModels.DocChunk, error) {
	if err := r.EnsureIndex(ctx, docName); err != nil {
		return "", nil, err
	}

	start := time.Now()
	vector, err := r.embedder.GetEmbedding(ctx, query)
	metrics.CaptureExecutionMetrics("embedding", time.Since(start))
	if err != nil {
		return "", nil, commonModels.UpstreamError("Embedding request failed.", err)
	}

	start = time.Now()
	matches, err := r.store.Search(ctx, docName, vector, r.topK)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		return "", nil, err
	}

	texts := make([]string, len(matches))
	for i, m := range matches {
		texts[i] = m.Chunk
	}
	return strings.Join(texts, "\n"), matches, nil
}
