package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/emasmetal/website/internal/logger"
	"github.com/emasmetal/website/internal/ui/client"
	"github.com/emasmetal/website/internal/ui/config"
	"github.com/emasmetal/website/internal/ui/handlers"
	"github.com/emasmetal/website/internal/ui/middleware"
)

const (
	// ServerShutdownTimeout is the timeout for graceful server shutdown
	ServerShutdownTimeout = 10 * time.Second

	// requests are cancelled this long before the server write timeout, so the error page can still be written
	requestTimeoutMargin = time.Second

	// lower bound for the request timeout when the write timeout is very short
	minRequestTimeout = 500 * time.Millisecond

	// static assets served from disk
	staticDir = "./web/static/"
)

type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
}

// NewServer creates the website server. apiClient is shared by all handlers.
func NewServer(cfg *config.Config, logger *slog.Logger, apiClient *client.Client) *Server {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	s.setupMiddleware()
	s.RegisterRoutes(apiClient)
	return s
}

// Router returns the http handler for the site (used by tests)
func (s *Server) Router() http.Handler {
	return s.router
}

// RegisterRoutes registers the website routes
func (s *Server) RegisterRoutes(apiClient *client.Client) {
	handlerService := handlers.NewHandlerService(apiClient, s.config.Environment, s.config.ContactMaxUploadBytes)

	s.router.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	s.router.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s.router.Get("/", handlerService.HomePage)

	s.router.Get("/references", handlerService.ReferencesPage)
	s.router.Get("/references/{id}", handlerService.ReferenceDetailPage)

	s.router.Get("/gallery", handlerService.GalleryPage)
	s.router.Get("/gallery/{id}", handlerService.GalleryItemPage)

	s.router.Get("/contact", handlerService.ContactPage)
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(s.config.ContactRateLimit, s.config.ContactRateBurst))
		// allow for the multipart framing around the attachment and form fields
		r.Use(middleware.RequestSizeLimit(s.config.ContactMaxUploadBytes + 64*1024))

		r.Post("/contact", handlerService.SubmitContact)
	})

	s.router.NotFound(handlerService.NotFound)
}

// requestTimeout returns how long a request (including the API calls it makes) may run
func requestTimeout(writeTimeout time.Duration) time.Duration {
	return max(writeTimeout-requestTimeoutMargin, minRequestTimeout)
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(logger.RequestLogging(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(requestTimeout(s.config.WriteTimeout)))
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
}

// Start runs the server until ctx is cancelled, then shuts it down gracefully
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("website listening", slog.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down website server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ServerShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Server forced to shutdown", slog.String("error", err.Error()))
			return err
		}
	}

	return nil
}
