package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"techupnext/internal/domain"
)

// Runner triggers one agent run.
type Runner interface {
	Run(ctx context.Context, sendMail bool) (*domain.RunStats, error)
}

// NewsReader serves the read path of the news table.
type NewsReader interface {
	List(ctx context.Context, categories []string) ([]domain.NewsItem, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

// SubscriberWriter records signup requests.
type SubscriberWriter interface {
	Add(ctx context.Context, email string) error
}

// Server exposes the trigger surface: subscribe, run, news, categories.
type Server struct {
	runner      Runner
	news        NewsReader
	subscribers SubscriberWriter
	logger      *slog.Logger
}

func New(runner Runner, news NewsReader, subscribers SubscriberWriter, logger *slog.Logger) *Server {
	return &Server{
		runner:      runner,
		news:        news,
		subscribers: subscribers,
		logger:      logger.With("component", "server"),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /subscribe", s.handleSubscribe)
	mux.HandleFunc("GET /run", s.handleRun)
	mux.HandleFunc("GET /news", s.handleNews)
	mux.HandleFunc("GET /categories", s.handleCategories)
	return mux
}

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
