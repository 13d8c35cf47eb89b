package poller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/coinpulse/internal/model"
)

// ErrStopped is returned by Start and Restart after Close.
var ErrStopped = errors.New("poller stopped")

// Source produces the tickers for one cycle.
type Source interface {
	GetTickers(ctx context.Context) ([]model.Ticker, error)
}

// Result is the outcome of one cycle.
type Result struct {
	Tickers    []model.Ticker `json:"tickers"`
	Err        error          `json:"-"`
	At         time.Time      `json:"at"`
	Activation string         `json:"activation"`
}

// Continue reports whether the loop schedules another cycle after r.
func (r Result) Continue() bool {
	return r.Err == nil && len(r.Tickers) > 0
}

// Publisher receives every published cycle result. Publish must not block
// or call back into the Poller.
type Publisher interface {
	Publish(Result)
}

// PublisherFunc is a function adapter for Publisher.
type PublisherFunc func(Result)

func (f PublisherFunc) Publish(r Result) {
	f(r)
}

// Config holds poller configuration.
type Config struct {
	Interval time.Duration // Delay between successful cycles (default: 5s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{Interval: 5 * time.Second}
}

// Poller repeatedly pulls tickers from a Source and publishes each result.
type Poller struct {
	cfg       Config
	source    Source
	publisher Publisher
	logger    *slog.Logger

	base     context.Context
	shutdown context.CancelFunc
	wg       sync.WaitGroup

	mu         sync.Mutex
	cancel     context.CancelFunc // current activation, nil when idle
	activation string
	closed     bool

	cycles atomic.Int64
}

// New creates a new Poller.
func New(cfg Config, source Source, publisher Publisher, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if publisher == nil {
		publisher = PublisherFunc(func(Result) {})
	}

	base, shutdown := context.WithCancel(context.Background())
	return &Poller{
		cfg:       cfg,
		source:    source,
		publisher: publisher,
		logger:    logger,
		base:      base,
		shutdown:  shutdown,
	}
}

// Start begins polling. It is a no-op while an activation is running.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrStopped
	}
	if p.cancel != nil {
		return nil
	}
	p.activateLocked()
	return nil
}

// Restart cancels the running activation, without waiting for it, and
// starts a fresh one.
func (p *Poller) Restart() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrStopped
	}
	p.deactivateLocked("restart")
	p.activateLocked()
	return nil
}

// Stop cancels the running activation. In-flight work is abandoned.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.deactivateLocked("stop")
}

// Running reports whether an activation is in progress.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.cancel != nil
}

// Cycles returns the number of results published so far.
func (p *Poller) Cycles() int64 {
	return p.cycles.Load()
}

// Close stops polling for good and waits for activations to exit.
func (p *Poller) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closed = true
	p.deactivateLocked("close")
	p.mu.Unlock()

	p.shutdown()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("poller closed", "cycles", p.cycles.Load())
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) activateLocked() {
	ctx, cancel := context.WithCancel(p.base)
	id := uuid.NewString()

	p.cancel = cancel
	p.activation = id

	p.wg.Add(1)
	go p.run(ctx, id)

	p.logger.Info("poller started", "activation", id, "interval", p.cfg.Interval)
}

func (p *Poller) deactivateLocked(reason string) {
	if p.cancel == nil {
		return
	}
	p.cancel()
	p.logger.Info("poller stopped", "activation", p.activation, "reason", reason)
	p.cancel = nil
	p.activation = ""
}

// run is one activation's loop.
func (p *Poller) run(ctx context.Context, id string) {
	defer p.wg.Done()
	defer p.finish(id)

	for {
		tickers, err := p.source.GetTickers(ctx)
		result := Result{
			Tickers:    tickers,
			Err:        err,
			At:         time.Now(),
			Activation: id,
		}

		if !p.publish(ctx, id, result) {
			return
		}

		if !result.Continue() {
			if err != nil {
				p.logger.Warn("poll cycle failed, waiting for restart", "activation", id, "err", err)
			} else {
				p.logger.Info("no tickers returned, waiting for restart", "activation", id)
			}
			return
		}

		timer := time.NewTimer(p.cfg.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// publish hands r to the publisher unless the activation was replaced or
// cancelled. It holds the lock so Stop and Restart cannot interleave.
func (p *Poller) publish(ctx context.Context, id string, r Result) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if ctx.Err() != nil || p.activation != id {
		return false
	}
	p.publisher.Publish(r)
	p.cycles.Add(1)
	return true
}

// finish returns the poller to Idle if id is still the current activation.
func (p *Poller) finish(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.activation != id {
		return
	}
	p.cancel()
	p.cancel = nil
	p.activation = ""
}
