package googleEmbedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/akolanti/pdfqa/internal/rag/embedding"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"google.golang.org/genai"
)

const (
	taskDocument = "RETRIEVAL_DOCUMENT"
	taskQuery    = "RETRIEVAL_QUERY"
)

type client struct {
	genAi     *genai.Client
	model     string
	dimension *int32
	logger    *logger_i.Logger
}

func GetGoogleEmbeddingClient(ctx context.Context, modelName string, apikey string, dimensions int, hc *http.Client) (embedding.Embedder, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
	})
	if err != nil {
		return nil, fmt.Errorf("creating google embedding client: %w", err)
	}

	e := &client{
		genAi:  c,
		model:  modelName,
		logger: logger_i.NewLogger("google_embedding"),
	}
	if dimensions > 0 {
		d := int32(dimensions)
		e.dimension = &d
	}
	e.logger.Info("Google Embedding client created", "model", modelName)
	return e, nil
}

func (c *client) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	res, err := c.doCall(ctx, getContent([]string{query}), taskQuery)
	if err != nil {
		c.logger.WithTrace(ctx).Error("Error getting query embedding from Google", "error", err)
		return nil, fmt.Errorf("google embeddings: %w", err)
	}
	if len(res.Embeddings) == 0 || res.Embeddings[0] == nil {
		return nil, fmt.Errorf("google embeddings: empty result for query")
	}
	return res.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx)
	if len(chunks) == 0 {
		return [][]float32{}, nil
	}

	res, err := c.doCall(ctx, getContent(chunks), taskDocument)
	if err != nil {
		log.Error("Error getting Embeddings from Google", "error", err)
		return nil, fmt.Errorf("google embeddings: %w", err)
	}
	if len(res.Embeddings) != len(chunks) {
		return nil, fmt.Errorf("google embeddings: expected %d vectors, got %d", len(chunks), len(res.Embeddings))
	}

	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		if r == nil {
			return nil, fmt.Errorf("google embeddings: missing vector in batch")
		}
		vectors = append(vectors, r.Values)
	}
	return vectors, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content, task string) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: c.dimension,
		TaskType:             task,
	})
}

func getContent(chunks []string) []*genai.Content {
	contentsToSend := make([]*genai.Content, 0, len(chunks))
	for _, chunk := range chunks {
		contentsToSend = append(contentsToSend, &genai.Content{
			Parts: []*genai.Part{{Text: chunk}},
		})
	}
	return contentsToSend
}
