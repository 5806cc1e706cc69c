package commands

import (
	"os/signal"
	"syscall"

	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/handlers"
	"github.com/akolanti/pdfqa/internal/mcpserver"
	"github.com/akolanti/pdfqa/internal/middleware"
	"github.com/akolanti/pdfqa/internal/server"
	"github.com/akolanti/pdfqa/internal/watcher"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/spf13/cobra"
)

func NewServeCmd() *cobra.Command {
	var listenAddr string
	var watch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the http api",
		Long: `Start the http api on the configured address (default localhost:3050).

Routes:
  POST /update_vectordb            rebuild every index
  POST /ask_questions/{pdf_name}   answer the last user message
  GET  /health, /metrics, /swagger/index.html
  /mcp                             MCP streamable http transport

Examples:
  pdfqa serve
  pdfqa serve --listen-addr :8080 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := logger_i.NewLogger("main")
			if cmd.Flags().Changed("listen-addr") {
				settings.ListenAddr = listenAddr
			}
			if cmd.Flags().Changed("watch") {
				settings.Watch = watch
			}

			service, closeServices, err := newService(ctx, settings)
			if err != nil {
				return err
			}
			defer closeServices()

			if settings.Watch {
				w, err := watcher.New(settings.DocumentsDir, config.WatchDebounce, service)
				if err != nil {
					return err
				}
				go func() {
					if err := w.Run(ctx); err != nil {
						logger.Error("Watcher stopped", "error", err)
					}
				}()
			}

			routes := server.Routes(
				handlers.NewHandler(service),
				middleware.New(settings),
				mcpserver.NewServer(service).Handler(),
			)
			if err := server.New(settings.ListenAddr, routes).Start(ctx); err != nil {
				return err
			}
			logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild a PDF's index when the file changes")
	return cmd
}
