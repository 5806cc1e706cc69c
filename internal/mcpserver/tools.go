package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/pdfqa/internal/adapter"
	"github.com/akolanti/pdfqa/internal/api"
	"github.com/akolanti/pdfqa/internal/domain/commonModels"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type UpdateInput struct {
	Document string `json:"document,omitempty" jsonschema:"rebuild only this PDF file name; empty rebuilds every PDF"`
}

type UpdateOutput struct {
	Message   string               `json:"message"`
	Documents []api.DocumentStatus `json:"documents"`
}

type AskInput struct {
	PDFName      string                    `json:"pdf_name" jsonschema:"file name of an indexed PDF, e.g. report.pdf"`
	Conversation []api.ConversationMessage `json:"conversation" jsonschema:"messages in order; the last one must have role user"`
}

type AskOutput struct {
	Response string         `json:"response"`
	Sources  []SourceOutput `json:"sources"`
}

type SourceOutput struct {
	Content    string  `json:"content"`
	Page       int     `json:"page"`
	ChunkOrder int     `json:"chunk_order"`
	Score      float32 `json:"score"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_vectordb",
		Description: "Rebuild the vector index of every PDF in the documents directory, or of a single PDF",
	}, s.handleUpdate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_questions",
		Description: "Answer the last user message of a conversation from one PDF's vector index",
	}, s.handleAsk)
}

func (s *Server) handleUpdate(ctx context.Context, _ *mcp.CallToolRequest, input UpdateInput) (*mcp.CallToolResult, UpdateOutput, error) {
	if input.Document != "" {
		job, err := s.service.RebuildDocument(ctx, input.Document)
		if err != nil {
			return nil, UpdateOutput{}, toolError(err)
		}
		return nil, UpdateOutput{
			Message:   fmt.Sprintf("Vector database updated for %s.", job.DocName),
			Documents: []api.DocumentStatus{adapter.ToDocumentStatus(job)},
		}, nil
	}

	report, err := s.service.RebuildAll(ctx)
	if err != nil {
		return nil, UpdateOutput{}, toolError(err)
	}
	res := adapter.ToUpdateResponse(report)
	return nil, UpdateOutput{Message: res.Message, Documents: res.Documents}, nil
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.service.AnswerWithSources(ctx, input.PDFName, adapter.ToConversation(input.Conversation))
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}

	output := AskOutput{
		Response: answer.Response,
		Sources:  make([]SourceOutput, len(answer.Sources)),
	}
	for i, c := range answer.Sources {
		output.Sources[i] = SourceOutput{
			Content:    c.Chunk,
			Page:       c.PageNum,
			ChunkOrder: c.ChunkPageOrder,
			Score:      c.Score,
		}
	}
	return nil, output, nil
}

// toolError keeps the client-facing message and drops provider internals.
func toolError(err error) error {
	return errors.New(commonModels.Detail(err, err.Error()))
}
