package openaiLLM

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/akolanti/pdfqa/internal/rag/llm"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type llmClient struct {
	api       openai.Client
	modelName string
	logger    *logger_i.Logger
}

type Config struct {
	APIKey     string
	Model      string
	HTTPClient *http.Client
	BaseURL    string
}

func NewOpenAIClient(cfg Config) llm.Provider {
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
	return &llmClient{
		api:       openai.NewClient(opts...),
		modelName: cfg.Model,
		logger:    logger_i.NewLogger("llm_openai"),
	}
}

func (c *llmClient) Complete(ctx context.Context, messages []commonModels.Message) (string, error) {
	log := c.logger.WithTrace(ctx)

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.modelName),
		Messages: toOpenAIMessages(messages),
	}

	log.Debug("Requesting completion", "model", c.modelName, "messages", len(messages))
	res, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		log.Error("OpenAI completion failed", "error", err)
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", errors.New("openai completion: no choices returned")
	}
	return res.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []commonModels.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case commonModels.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case commonModels.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
