package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rickgao/coinpulse/internal/connectivity"
)

// ErrInactive is returned by Refresh while offline or not visible.
var ErrInactive = errors.New("refresh unavailable: offline or not visible")

// Controller is the start/stop surface of a refresh loop.
type Controller interface {
	Start() error
	Stop()
	Restart() error
	Running() bool
}

// State is a snapshot of the supervisor inputs and loop state.
type State struct {
	Connectivity connectivity.Status `json:"connectivity"`
	Visible      bool                `json:"visible"`
	Running      bool                `json:"running"`
}

// Supervisor drives a Controller from connectivity and visibility changes.
// The loop runs only while Available and visible.
type Supervisor struct {
	loop   Controller
	logger *slog.Logger

	mu      sync.Mutex
	status  connectivity.Status
	visible bool
}

// NewSupervisor creates a supervisor. It starts Unavailable and not visible.
func NewSupervisor(loop Controller, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Supervisor{
		loop:   loop,
		logger: logger,
		status: connectivity.Unavailable,
	}
}

// SetConnectivity records a connectivity transition.
func (s *Supervisor) SetConnectivity(status connectivity.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status == s.status {
		return
	}
	s.logger.Debug("connectivity input", "from", s.status, "to", status)
	s.status = status
	s.applyLocked()
}

// SetVisible records whether a consumer is watching.
func (s *Supervisor) SetVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if visible == s.visible {
		return
	}
	s.logger.Debug("visibility input", "visible", visible)
	s.visible = visible
	s.applyLocked()
}

// Refresh restarts the loop immediately.
func (s *Supervisor) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.activeLocked() {
		return ErrInactive
	}
	return s.loop.Restart()
}

// State returns the current inputs and whether the loop is running.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Connectivity: s.status,
		Visible:      s.visible,
		Running:      s.loop.Running(),
	}
}

// Run feeds statuses into SetConnectivity until the channel closes or ctx
// is done.
func (s *Supervisor) Run(ctx context.Context, statuses <-chan connectivity.Status) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case status, ok := <-statuses:
			if !ok {
				return nil
			}
			s.SetConnectivity(status)
		}
	}
}

func (s *Supervisor) activeLocked() bool {
	return s.status == connectivity.Available && s.visible
}

func (s *Supervisor) applyLocked() {
	if !s.activeLocked() {
		s.loop.Stop()
		return
	}
	if err := s.loop.Start(); err != nil {
		s.logger.Warn("failed to start poller", "err", err)
	}
}
