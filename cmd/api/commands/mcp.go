package commands

import (
	"os/signal"
	"syscall"

	"github.com/akolanti/pdfqa/internal/mcpserver"
	"github.com/spf13/cobra"
)

func NewMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the update_vectordb and ask_questions tools over MCP stdio",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			service, closeServices, err := newService(ctx, settings)
			if err != nil {
				return err
			}
			defer closeServices()

			return mcpserver.NewServer(service).Run(ctx)
		},
	}
}
