package vectorDB

import (
	"context"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
)

// IndexStore keeps one vector index per document name.
type IndexStore interface {
	// Replace drops whatever was indexed under name and stores chunks in its place.
	// vectors[i] is the embedding of chunks[i].
	Replace(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error

	// Exists reports whether name has a queryable index.
	Exists(ctx context.Context, name string) (bool, error)

	// Search returns up to k chunks of the named index, most similar first.
	// A missing index yields a commonModels.ErrNotFound error.
	Search(ctx context.Context, name string, vector []float32, k int) ([]commonModels.DocChunk, error)

	Close() error
}

const MsgIndexNotFound = "Vector database not found. Please update the vector database first."

func IndexNotFound() error {
	return commonModels.NotFoundError(MsgIndexNotFound)
}
