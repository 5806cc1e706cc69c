package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/akolanti/pdfqa/internal/adapter/utils"
	"github.com/akolanti/pdfqa/internal/config"
	"github.com/akolanti/pdfqa/internal/handlers"
	"github.com/akolanti/pdfqa/internal/middleware"
	"github.com/akolanti/pdfqa/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	http   *http.Server
	logger *logger_i.Logger
}

// Routes wires the api endpoints behind the middleware. mcpHandler is
// optional and mounted at /mcp when set.
func Routes(h *handlers.Handler, mw *middleware.Middleware, mcpHandler http.Handler) *chi.Mux {
	r := utils.NewRouter()

	r.Get("/health", mw.Wrap(h.HealthHandler))
	r.Post("/update_vectordb", mw.Wrap(h.UpdateVectorDBHandler))
	r.Post("/ask_questions/{pdf_name}", mw.Wrap(h.AskQuestionsHandler))
	if mcpHandler != nil {
		r.Handle("/mcp", mw.Wrap(mcpHandler.ServeHTTP))
	}
	return r
}

func New(listenAddr string, handler http.Handler) *Server {
	return &Server{
		http: &http.Server{
			Addr:         listenAddr,
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: logger_i.NewLogger("Server"),
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully within
// config.ShutdownContextTimeout.
func (s *Server) Start(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("Server is listening at", "address", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			s.logger.Error("Server crashed", "error", err, "addr", s.http.Addr)
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Server is shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	s.http.SetKeepAlivesEnabled(false)
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Could not shutdown gracefully", "error", err)
		return err
	}
	s.logger.Info("Gracefully shut down")
	return nil
}
