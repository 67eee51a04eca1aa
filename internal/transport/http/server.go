package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sloghttp "github.com/samber/slog-http"

	channelservice "telewatch/internal/modules/channel/service"
	feedservice "telewatch/internal/modules/feed/service"
	monitordomain "telewatch/internal/modules/monitor/domain"
	sessiondomain "telewatch/internal/modules/session/domain"
	"telewatch/internal/shared/config"
)

// StatusSource mirrors the status command for the HTTP surface.
type StatusSource interface {
	Status() sessiondomain.Status
}

// StoreInfo exposes cache counters.
type StoreInfo interface {
	Info() channelservice.CacheInfo
}

// MonitorState exposes the monitoring task state.
type MonitorState interface {
	State() monitordomain.State
}

// Server serves the activity feed and a status mirror over HTTP.
type Server struct {
	cfg     *config.Config
	feed    *feedservice.Service
	session StatusSource
	store   StoreInfo
	monitor MonitorState
	logger  *slog.Logger
	srv     *http.Server
}

// New creates a new HTTP server
func New(cfg *config.Config, feed *feedservice.Service, session StatusSource, store StoreInfo, monitor MonitorState) *Server {
	return &Server{
		cfg:     cfg,
		feed:    feed,
		session: session,
		store:   store,
		monitor: monitor,
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger
}

// Start starts the HTTP server and blocks until Shutdown or failure.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /feed", s.handleFeed)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /", s.handleRoot)

	addr := fmt.Sprintf(":%s", s.cfg.HTTPPort)
	s.logger.Info("Activity feed server starting", "addr", addr)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	baseURL := fmt.Sprintf("%s://%s", getScheme(r), r.Host)

	feed, err := s.feed.GenerateFeed(baseURL)
	if err != nil {
		s.logger.Error("Error generating feed", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	atom, err := feed.ToAtom()
	if err != nil {
		s.logger.Error("Error converting feed to Atom", "error", err)
		http.Error(w, "Failed to generate feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/atom+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(atom))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := s.session.Status()
	info := s.store.Info()

	out := map[string]any{
		"session":       status.State.String(),
		"user":          status.Identity.Name,
		"monitoring":    s.monitor.State().String(),
		"channels":      info.Channels,
		"monitored":     info.Selected,
		"cache_refresh": info.RefreshedAt,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(out)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	html := `<!DOCTYPE html>
<html>
<head>
    <title>telewatch</title>
    <style>
        body { font-family: Arial, sans-serif; max-width: 800px; margin: 50px auto; padding: 20px; }
        h1 { color: #333; }
        .info { background: #f5f5f5; padding: 15px; border-radius: 5px; margin: 20px 0; }
        code { background: #e8e8e8; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>telewatch</h1>
    <div class="info">
        <p>Activity from monitored Telegram channels.</p>
        <p>Feed: <code>/feed</code> &middot; Status: <code>/status</code></p>
    </div>
    <p><a href="/health">Health Check</a></p>
</body>
</html>`
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
