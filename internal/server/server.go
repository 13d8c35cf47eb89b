// Package server exposes tickers, loop control and the live result stream
// over HTTP.
//
// Routes:
//   - GET  /tickers?q=  cached or refreshed tickers, optionally filtered
//   - POST /refresh     restart the refresh loop
//   - GET  /health      component status
//   - GET  /ws          websocket stream of poll results
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/coinpulse/internal/connectivity"
	"github.com/rickgao/coinpulse/internal/model"
	"github.com/rickgao/coinpulse/internal/poller"
	"github.com/rickgao/coinpulse/internal/store"
	"github.com/rickgao/coinpulse/internal/tickers"
	"github.com/rickgao/coinpulse/internal/version"
)

// Repository serves tickers.
type Repository interface {
	GetTickers(ctx context.Context) ([]model.Ticker, error)
	Stats() tickers.Stats
}

// Controller exposes the refresh loop.
type Controller interface {
	Refresh() error
	State() poller.State
}

// Feed streams poll results.
type Feed interface {
	Latest() (poller.Result, bool)
	Subscribe() (<-chan poller.Result, func())
}

// Config holds server settings.
type Config struct {
	Port          int
	WriteWait     time.Duration // Max time to write one websocket frame (default: 5s)
	PongWait      time.Duration // Max time between pongs (default: 60s)
	PingPeriod    time.Duration // Ping interval, must be < PongWait (default: 50s)
	HealthTimeout time.Duration // Store ping timeout (default: 5s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:          8080,
		WriteWait:     5 * time.Second,
		PongWait:      60 * time.Second,
		PingPeriod:    50 * time.Second,
		HealthTimeout: 5 * time.Second,
	}
}

// Server is the HTTP surface.
type Server struct {
	cfg    Config
	repo   Repository
	ctrl   Controller
	feed   Feed
	store  store.Store
	logger *slog.Logger

	upgrader websocket.Upgrader
	http     *http.Server

	closing  chan struct{}
	closeOne sync.Once
}

// New creates a Server. st is optional and only used for health checks.
func New(cfg Config, repo Repository, ctrl Controller, feed Feed, st store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = def.WriteWait
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = def.PongWait
	}
	if cfg.PingPeriod <= 0 || cfg.PingPeriod >= cfg.PongWait {
		cfg.PingPeriod = cfg.PongWait * 9 / 10
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = def.HealthTimeout
	}

	s := &Server{
		cfg:    cfg,
		repo:   repo,
		ctrl:   ctrl,
		feed:   feed,
		store:  st,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		closing: make(chan struct{}),
	}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tickers", s.handleTickers)
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleStream)
	return mux
}

// ListenAndServe serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("starting http server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve http: %w", err)
	}
	return nil
}

// Shutdown closes websocket streams and drains HTTP requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOne.Do(func() { close(s.closing) })
	return s.http.Shutdown(ctx)
}

type tickersResponse struct {
	Count   int            `json:"count"`
	Tickers []model.Ticker `json:"tickers"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	list, err := s.repo.GetTickers(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			return
		}
		status := http.StatusInternalServerError
		if errors.Is(err, tickers.ErrRefreshFailed) {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	list = model.FilterTickers(list, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, tickersResponse{Count: len(list), Tickers: list})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.ctrl.Refresh(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, poller.ErrInactive) {
			status = http.StatusConflict
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshing"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.HealthTimeout)
	defer cancel()

	state := s.ctrl.State()
	stats := s.repo.Stats()

	health := struct {
		Status     string         `json:"status"`
		Version    string         `json:"version"`
		Components map[string]any `json:"components"`
	}{
		Status:     "healthy",
		Version:    version.String(),
		Components: make(map[string]any),
	}

	health.Components["poller"] = state
	health.Components["cache"] = map[string]any{
		"hits":         stats.Hits,
		"refreshes":    stats.Refreshes,
		"failures":     stats.Failures,
		"last_refresh": stats.LastRefresh,
	}
	if latest, ok := s.feed.Latest(); ok {
		feed := map[string]any{
			"activation": latest.Activation,
			"at":         latest.At,
			"tickers":    len(latest.Tickers),
		}
		if latest.Err != nil {
			feed["error"] = latest.Err.Error()
		}
		health.Components["feed"] = feed
	}
	if state.Connectivity != connectivity.Available {
		health.Status = "degraded"
	}

	if p, ok := s.store.(store.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["store"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["store"] = "connected"
		}
	}

	status := http.StatusOK
	if health.Status == "unhealthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
