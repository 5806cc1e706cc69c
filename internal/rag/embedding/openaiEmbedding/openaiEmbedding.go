package openaiEmbedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/akolanti/pdfqa/internal/rag/embedding"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type client struct {
	api        openai.Client
	model      string
	dimensions int
	logger     *logger_i.Logger
}

type Config struct {
	APIKey     string
	Model      string
	Dimensions int
	HTTPClient *http.Client
	// BaseURL overrides the public endpoint, used by tests and proxies
	BaseURL string
}

func NewOpenAIEmbeddingClient(cfg Config) embedding.Embedder {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &client{
		api:        openai.NewClient(opts...),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		logger:     logger_i.NewLogger("openai_embedding"),
	}
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	res, err := c.BatchEmbedding(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return res[0], nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx)
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}

	params := openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: chunks},
		Model: openai.EmbeddingModel(c.model),
	}
	if c.dimensions > 0 {
		params.Dimensions = openai.Int(int64(c.dimensions))
	}

	log.Debug("Requesting embeddings", "model", c.model, "inputs", len(chunks))
	res, err := c.api.Embeddings.New(ctx, params)
	if err != nil {
		log.Error("Error getting embeddings from OpenAI", "error", err)
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(res.Data) != len(chunks) {
		return nil, fmt.Errorf("openai embeddings: expected %d vectors, got %d", len(chunks), len(res.Data))
	}

	// the api may answer out of order
	vectors := make([][]float32, len(chunks))
	for _, d := range res.Data {
		if d.Index < 0 || int(d.Index) >= len(chunks) {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
		}
		vectors[d.Index] = toFloat32(d.Embedding)
	}
	return vectors, nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(f)
	}
	return out
}
