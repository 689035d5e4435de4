// Package server provides the HTTP chat front-end for lapbot.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/lapbot/internal/chat"
	"github.com/hyperjump/lapbot/internal/config"
	"github.com/hyperjump/lapbot/internal/metrics"
)

// SessionCookie names the cookie that carries the transcript session id.
const SessionCookie = "lapbot_session"

// Server is the HTTP server for the chat API and page.
type Server struct {
	bot      *chat.Bot
	sessions *chat.Registry
	config   *config.Config
	metrics  *metrics.Metrics
	logger   *zap.Logger
	server   *http.Server
	stop     chan struct{}
}

// NewServer creates a server with the given dependencies. m may be nil.
func NewServer(
	bot *chat.Bot,
	sessions *chat.Registry,
	cfg *config.Config,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Server {
	return &Server{
		bot:      bot,
		sessions: sessions,
		config:   cfg,
		metrics:  m,
		logger:   logger,
		stop:     make(chan struct{}),
	}
}

// Router builds the chi router with all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))
	r.Use(s.requestLogger)

	r.Get("/", s.handleIndex)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.handleChat)
		r.Post("/chat/reset", s.handleReset)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go s.pruneSessions(s.config.Chat.SessionTTL)
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// pruneInterval is how often idle sessions are swept for the given ttl.
func pruneInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	if interval > time.Hour {
		interval = time.Hour
	}
	return interval
}

func (s *Server) pruneSessions(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(pruneInterval(ttl))
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := s.sessions.Prune(ttl); n > 0 {
				s.logger.Debug("pruned idle sessions", zap.Int("count", n))
			}
			s.metrics.SetSessions(s.sessions.Len())
		}
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
