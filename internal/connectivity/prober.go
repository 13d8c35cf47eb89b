package connectivity

import (
	"context"
	"log/slog"
	"time"
)

// Pinger checks the upstream once.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds prober settings.
type Config struct {
	Interval  time.Duration // Time between probes (default: 10s)
	Timeout   time.Duration // Per-probe timeout (default: 3s)
	LostAfter int           // Consecutive failures before Lost (default: 3)
}

// DefaultConfig returns the default prober configuration.
func DefaultConfig() Config {
	return Config{
		Interval:  10 * time.Second,
		Timeout:   3 * time.Second,
		LostAfter: 3,
	}
}

// Prober is an Observer driven by periodic pings.
type Prober struct {
	cfg    Config
	pinger Pinger
	logger *slog.Logger
}

// NewProber creates a Prober. Zero config fields take defaults.
func NewProber(cfg Config, pinger Pinger, logger *slog.Logger) *Prober {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.LostAfter <= 0 {
		cfg.LostAfter = def.LostAfter
	}
	return &Prober{cfg: cfg, pinger: pinger, logger: logger}
}

// Observe probes immediately, then every Interval. The channel is closed
// when ctx is done.
func (p *Prober) Observe(ctx context.Context) <-chan Status {
	out := make(chan Status, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(p.cfg.Interval)
		defer ticker.Stop()

		var t tracker
		t.lostAfter = p.cfg.LostAfter

		for {
			err := p.probe(ctx)
			if ctx.Err() != nil {
				return
			}
			if next, changed := t.observe(err); changed {
				p.logger.Info("connectivity changed", "status", next, "failures", t.failures)
				select {
				case out <- next:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out
}

func (p *Prober) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	err := p.pinger.Ping(ctx)
	if err != nil && ctx.Err() == nil {
		p.logger.Debug("probe failed", "err", err)
	}
	return err
}

// tracker folds probe outcomes into Status transitions.
type tracker struct {
	lostAfter int
	seen      bool // any status emitted yet
	everUp    bool
	failures  int
	status    Status
}

func (t *tracker) observe(err error) (Status, bool) {
	next := t.status
	if err == nil {
		t.failures = 0
		t.everUp = true
		next = Available
	} else {
		t.failures++
		switch {
		case !t.everUp:
			next = Unavailable
		case t.failures >= t.lostAfter:
			next = Lost
		case t.status == Available:
			next = Losing
		}
	}

	changed := !t.seen || next != t.status
	t.seen = true
	t.status = next
	return next, changed
}
