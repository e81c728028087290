// Package api exposes the HTTP interface for the archive feed service.
package api

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amroutes/archivecast/internal/browse"
	"github.com/amroutes/archivecast/internal/clock"
	"github.com/amroutes/archivecast/internal/config"
	"github.com/amroutes/archivecast/internal/crawl"
	"github.com/amroutes/archivecast/internal/feed"
	"github.com/amroutes/archivecast/internal/metrics"
)

// ArchiveCrawler produces the archive aggregate for one request.
type ArchiveCrawler interface {
	Run(ctx context.Context) (crawl.Archive, error)
}

// Server wires HTTP handlers to the crawler and renderers.
type Server struct {
	router  chi.Router
	crawler ArchiveCrawler
	clock   clock.Clock
	cfg     config.Config
	logger  *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(crawler ArchiveCrawler, clk clock.Clock, cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		crawler: crawler,
		clock:   clk,
		cfg:     cfg,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)
	r.Use(timeoutMiddleware(cfg.RequestTimeout()))

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/feed.xml", s.feed)
	r.Get("/archive", s.archivePage)

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ok")
}

func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "ready")
}

// feed runs the crawl and renders the podcast feed. A failed crawl still
// responds 200 with a well-formed feed carrying zero items.
func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	archive := s.runCrawl(r.Context())

	rss := feed.Build(archive, s.feedMeta(), now)
	body, err := rss.Encode()
	if err != nil {
		s.logger.Error("feed encode failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	metrics.SetFeedItems(rss.ItemCount())

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if _, err := w.Write(body); err != nil {
		s.logger.Error("feed write failed", zap.Error(err))
	}
}

// archivePage runs the crawl and renders the browsable archive page.
func (s *Server) archivePage(w http.ResponseWriter, r *http.Request) {
	now := s.clock.Now()
	archive := s.runCrawl(r.Context())

	var buf bytes.Buffer
	if err := browse.Render(&buf, archive, s.cfg.Feed.Title, now); err != nil {
		s.logger.Error("archive page render failed", zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("archive page write failed", zap.Error(err))
	}
}

func (s *Server) runCrawl(ctx context.Context) crawl.Archive {
	archive, err := s.crawler.Run(ctx)
	if err != nil {
		s.logger.Warn("archive crawl failed, rendering empty result", zap.Error(err))
		return crawl.Archive{}
	}
	return archive
}

func (s *Server) feedMeta() feed.Meta {
	return feed.Meta{
		Title:       s.cfg.Feed.Title,
		Description: s.cfg.Feed.Description,
		Language:    s.cfg.Feed.Language,
		Copyright:   s.cfg.Feed.Copyright,
		OwnerName:   s.cfg.Feed.OwnerName,
		OwnerEmail:  s.cfg.Feed.OwnerEmail,
		Category:    s.cfg.Feed.Category,
		ArtworkURL:  s.cfg.Feed.ArtworkURL,
		SiteURL:     s.cfg.Site.Origin,
		SelfURL:     strings.TrimRight(s.cfg.Feed.BaseURL, "/") + "/feed.xml",
	}
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

type requestIDKey struct{}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, reqID)
		w.Header().Set("X-Request-ID", reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func loggingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.status),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			)
		})
	}
}

func recoverMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", zap.Any("error", rec))
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, "request timed out")
	}
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
