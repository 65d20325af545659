// Package server exposes screening over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/resume"
	"github.com/spigell/resume-screener/internal/screening"
	"github.com/spigell/resume-screener/internal/store"
)

const (
	defaultMaxUpload = 64 << 20
	shutdownTimeout  = 15 * time.Second
)

// Options configure a Server. Zero values select defaults.
type Options struct {
	// DefaultJob is used when a request carries no job fields.
	DefaultJob     resume.JobRequirements
	Summarizer     ai.Summarizer
	AllowedOrigins []string
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// Server owns the registries of screened resumes and cached summaries.
type Server struct {
	router     chi.Router
	screener   *screening.Screener
	resumes    *store.Memory[*screening.Outcome]
	summaries  *store.Memory[string]
	summarizer ai.Summarizer
	defaultJob resume.JobRequirements
	maxUpload  int64
	logger     *zap.Logger
}

func New(screener *screening.Screener, resumes *store.Memory[*screening.Outcome], opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	if resumes == nil {
		resumes = store.NewMemory[*screening.Outcome]()
	}

	s := &Server{
		screener:   screener,
		resumes:    resumes,
		summaries:  store.NewMemory[string](),
		summarizer: opts.Summarizer,
		defaultJob: opts.DefaultJob,
		maxUpload:  opts.MaxUploadBytes,
		logger:     opts.Logger,
	}
	s.router = s.routes(opts.AllowedOrigins)

	return s
}

func (s *Server) routes(origins []string) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	if len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/resumes", func(r chi.Router) {
			r.Post("/", s.handleUpload)
			r.Get("/", s.handleList)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGet)
				r.Delete("/", s.handleDelete)
				r.Post("/score", s.handleRescore)
				r.Get("/summary", s.handleSummary)
			})
		})
		r.Get("/stats", s.handleStats)
		r.Get("/emails", s.handleEmails)
	})

	return r
}

// ServeHTTP makes Server an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}
