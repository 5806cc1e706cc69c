package llm

import (
	"context"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
)

// Provider sends the full message sequence to a chat completion endpoint
// and returns the generated reply. Calls are non-streaming.
type Provider interface {
	Complete(ctx context.Context, messages []commonModels.Message) (string, error)
}
