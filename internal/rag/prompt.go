package rag

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/akolanti/pdfqa/internal/domain/commonModels"
)

const systemPromptTemplate = `You are a helpful Assistant who answers to users questions based on multiple contexts given to you.

Keep your answer short and to the point.

The evidence are the context of the pdf extract with metadata.

Reply "Not applicable" if text is irrelevant.

The PDF content is:
{{.PDFExtract}}`

var systemPrompt = template.Must(template.New("system").Parse(systemPromptTemplate))

// PromptData is the only input of the system prompt. Values are inserted
// as plain text, never parsed as template.
type PromptData struct {
	PDFExtract string
}

// AssemblePrompt returns the system message followed by the conversation in
// its original order. conversation is not modified.
func AssemblePrompt(contextText string, conversation []commonModels.Message) ([]commonModels.Message, error) {
	var b strings.Builder
	if err := systemPrompt.Execute(&b, PromptData{PDFExtract: contextText}); err != nil {
		return nil, fmt.Errorf("rendering system prompt: %w", err)
	}

	messages := make([]commonModels.Message, 0, len(conversation)+1)
	messages = append(messages, commonModels.Message{Role: commonModels.RoleSystem, Content: b.String()})
	return append(messages, conversation...), nil
}
