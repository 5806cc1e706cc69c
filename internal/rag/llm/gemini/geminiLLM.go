package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/rag/llm"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"google.golang.org/genai"
)

type llmClient struct {
	client    *genai.Client
	modelName string
	logger    *logger_i.Logger
}

func GetGeminiClient(ctx context.Context, apikey string, modelName string, hc *http.Client) (llm.Provider, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apikey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	logger := logger_i.NewLogger("llm_gemini")
	logger.Info("Gemini client created", "model", modelName)
	return &llmClient{client: c, modelName: modelName, logger: logger}, nil
}

func (c *llmClient) Complete(ctx context.Context, messages []commonModels.Message) (string, error) {
	log := c.logger.WithTrace(ctx)
	system, contents := splitMessages(messages)

	contentConfig := &genai.GenerateContentConfig{}
	if system != "" {
		contentConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}

	result, err := c.client.Models.GenerateContent(ctx, c.modelName, contents, contentConfig)
	if err != nil {
		log.Error("Gemini completion failed", "error", err)
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", errors.New("gemini completion: no candidates returned")
	}
	return result.Text(), nil
}

// splitMessages moves system turns into the system instruction, gemini has no system role.
func splitMessages(messages []commonModels.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case commonModels.RoleSystem:
			system = append(system, m.Content)
		case commonModels.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return strings.Join(system, "\n"), contents
}
