package qdrantDB

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/rag/vectorDB"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ClientHolder keeps one collection per document, named like the local
// index directory (vectordb-<name>).
type ClientHolder struct {
	QObj   *qdrant.Client
	logger *logger_i.Logger
}

var _ vectorDB.IndexStore = (*ClientHolder)(nil)

type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

func GetQuadrantClient(cfg Config) (*ClientHolder, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		APIKey:   cfg.APIKey,
		UseTLS:   cfg.UseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: could not instantiate client: %w", err)
	}
	logger := logger_i.NewLogger("Qdrant")
	logger.Info("Qdrant client created", "host", cfg.Host, "port", cfg.Port)
	return &ClientHolder{QObj: client, logger: logger}, nil
}

func collectionName(name string) string {
	return config.IndexDirPrefix + name
}

func (db *ClientHolder) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := db.QObj.CollectionExists(ctx, collectionName(name))
	if err != nil {
		return false, fmt.Errorf("qdrant: checking collection: %w", err)
	}
	if !exists {
		return false, nil
	}
	count, err := db.QObj.Count(ctx, &qdrant.CountPoints{
		CollectionName: collectionName(name),
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return false, fmt.Errorf("qdrant: counting points: %w", err)
	}
	return count > 0, nil
}

// Replace recreates the collection, so nothing from a previous build survives.
// Unlike the local store this is not atomic: a failure mid-way leaves the
// document without an index until the next rebuild.
func (db *ClientHolder) Replace(ctx context.Context, name string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if len(vectors) == 0 {
		return errors.New("qdrant: nothing to index")
	}
	coll := collectionName(name)
	log := db.logger.WithTrace(ctx).With("collection", coll)

	exists, err := db.QObj.CollectionExists(ctx, coll)
	if err != nil {
		return fmt.Errorf("qdrant: checking collection: %w", err)
	}
	if exists {
		if err := db.QObj.DeleteCollection(ctx, coll); err != nil {
			return fmt.Errorf("qdrant: dropping previous collection: %w", err)
		}
		log.Debug("Dropped previous collection")
	}

	err = db.QObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: coll,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(len(vectors[0])),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: creating collection: %w", err)
	}

	_, err = db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: coll,
		Points:         toPoints(chunks, vectors),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	log.Debug("Upserted points", "count", len(chunks))
	return nil
}

func (db *ClientHolder) Search(ctx context.Context, name string, vectorFloat []float32, k int) ([]commonModels.DocChunk, error) {
	loggr := db.logger.WithTrace(ctx)
	result, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: collectionName(name),
		Query:          qdrant.NewQuery(vectorFloat...),
		Limit:          qdrant.PtrOf(uint64(k)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, vectorDB.IndexNotFound()
		}
		loggr.Error("Error querying Qdrant", "error", err)
		return nil, err
	}
	if len(result) == 0 {
		return nil, vectorDB.IndexNotFound()
	}

	matches := make([]commonModels.DocChunk, 0, len(result))
	for _, hit := range result {
		matches = append(matches, fromPayload(hit.Payload, hit.Score))
	}
	loggr.Debug("Found matches", "collection", collectionName(name), "count", len(matches))
	return matches, nil
}

func (db *ClientHolder) Close() error {
	db.logger.Info("Shutting down Qdrant")
	return db.QObj.Close()
}

func toPoints(chunks []commonModels.DocChunk, vectors [][]float32) []*qdrant.PointStruct {
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":     chunk.Chunk,
				"doc_name":    chunk.DocName,
				"page_num":    chunk.PageNum,
				"chunk_order": chunk.ChunkPageOrder,
				"chunk_id":    chunk.ChunkId,
				"ingested_at": chunk.IngestedAt.Unix(),
			}),
		}
	}
	return points
}

func fromPayload(payload map[string]*qdrant.Value, score float32) commonModels.DocChunk {
	return commonModels.DocChunk{
		ChunkId:        payload["chunk_id"].GetStringValue(),
		Chunk:          payload["content"].GetStringValue(),
		DocName:        payload["doc_name"].GetStringValue(),
		PageNum:        int(payload["page_num"].GetIntegerValue()),
		ChunkPageOrder: int(payload["chunk_order"].GetIntegerValue()),
		Score:          score,
	}
}

func isNotFound(err error) bool {
	if s, ok := status.FromError(err); ok {
		return s.Code() == codes.NotFound
	}
	return false
}
