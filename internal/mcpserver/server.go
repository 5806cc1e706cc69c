package mcpserver

import (
	"context"
	"net/http"

	"github.com/akolanti/pdfqa/internal/rag"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const Version = "1.0.0"

// Server exposes the rebuild and ask operations as MCP tools.
type Server struct {
	service rag.Service
	server  *mcp.Server
	logger  *logger_i.Logger
}

func NewServer(service rag.Service) *Server {
	s := &Server{
		service: service,
		server:  mcp.NewServer(&mcp.Implementation{Name: "pdfqa", Version: Version}, nil),
		logger:  logger_i.NewLogger("MCP"),
	}
	s.registerTools()
	return s
}

// Run serves over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Serving MCP over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler serves the streamable HTTP transport, mounted on the api router.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
