package tickers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/rickgao/coinpulse/internal/model"
	"github.com/rickgao/coinpulse/internal/store"
	"github.com/rickgao/coinpulse/internal/symbols"
)

//go:generate mockgen -package=tickers_test -destination=mock_fetcher_test.go -source=repository.go Fetcher
//go:generate mockgen -package=tickers_test -destination=mock_store_test.go github.com/rickgao/coinpulse/internal/store Store

// ErrRefreshFailed means no reliable data could be produced. The cache is
// left exactly as it was.
var ErrRefreshFailed = errors.New("ticker refresh failed")

// Fetcher is the remote side of the cache.
type Fetcher interface {
	FetchQuotes(ctx context.Context, symbolsCSV string) ([]model.QuoteRecord, error)
	FetchDisplayNames(ctx context.Context, abbreviations []string) (map[string]string, error)
}

// Config holds cache settings.
type Config struct {
	TTL time.Duration // Max age of the oldest row before a refresh
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{TTL: 5 * time.Second}
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        int64
	Refreshes   int64
	Failures    int64
	LastRefresh time.Time
}

// Repository serves tickers from a store, refreshing from a Fetcher when stale.
type Repository struct {
	fetcher Fetcher
	store   store.Store
	symbols *symbols.Table
	config  Config
	logger  *slog.Logger
	now     func() time.Time

	flight *semaphore.Weighted

	hits        atomic.Int64
	refreshes   atomic.Int64
	failures    atomic.Int64
	lastRefresh atomic.Int64 // unix ms
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRepository creates a repository.
func NewRepository(fetcher Fetcher, st store.Store, table *symbols.Table, cfg Config, logger *slog.Logger, opts ...Option) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultConfig().TTL
	}

	r := &Repository{
		fetcher: fetcher,
		store:   st,
		symbols: table,
		config:  cfg,
		logger:  logger,
		now:     time.Now,
		flight:  semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetTickers returns the cached tickers, refreshing them first when the
// cache is empty or stale.
//
// A nil slice with ErrRefreshFailed means no reliable data. An empty,
// non-nil slice means the upstream returned nothing.
func (r *Repository) GetTickers(ctx context.Context) ([]model.Ticker, error) {
	if err := r.flight.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer r.flight.Release(1)

	rows, err := r.store.GetAll(ctx)
	if err != nil {
		r.failures.Add(1)
		r.logger.Error("failed to read ticker cache", "err", err)
		return nil, fmt.Errorf("%w: read cache: %w", ErrRefreshFailed, err)
	}

	if r.fresh(rows) {
		r.hits.Add(1)
		return model.RowsToTickers(rows), nil
	}

	return r.refresh(ctx)
}

// Stats returns a snapshot of the counters.
func (r *Repository) Stats() Stats {
	s := Stats{
		Hits:      r.hits.Load(),
		Refreshes: r.refreshes.Load(),
		Failures:  r.failures.Load(),
	}
	if ms := r.lastRefresh.Load(); ms > 0 {
		s.LastRefresh = time.UnixMilli(ms)
	}
	return s
}

func (r *Repository) fresh(rows []model.TickerRow) bool {
	oldest, ok := model.OldestUpdate(rows)
	if !ok {
		return false
	}
	return r.now().UnixMilli()-oldest <= r.config.TTL.Milliseconds()
}

func (r *Repository) refresh(ctx context.Context) ([]model.Ticker, error) {
	start := r.now()

	var (
		quotes []model.QuoteRecord
		names  map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := r.fetcher.FetchQuotes(gctx, r.symbols.TradingSymbolsCSV())
		if err != nil {
			return fmt.Errorf("fetch quotes: %w", err)
		}
		quotes = q
		return nil
	})
	g.Go(func() error {
		n, err := r.fetcher.FetchDisplayNames(gctx, r.symbols.Abbreviations())
		if err != nil {
			return fmt.Errorf("fetch display names: %w", err)
		}
		names = n
		return nil
	})

	if err := g.Wait(); err != nil {
		r.failures.Add(1)
		r.logger.Warn("ticker refresh failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}

	// Abandoned cycles must not write.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := r.merge(quotes, names)

	now := r.now()
	if err := r.store.Upsert(ctx, model.TickersToRows(merged, now.UnixMilli())); err != nil {
		r.failures.Add(1)
		r.logger.Error("failed to persist tickers", "err", err)
		return nil, fmt.Errorf("%w: persist: %w", ErrRefreshFailed, err)
	}

	r.refreshes.Add(1)
	r.lastRefresh.Store(now.UnixMilli())
	r.logger.Debug("tickers refreshed",
		"count", len(merged),
		"labels", len(names),
		"duration", now.Sub(start))

	return merged, nil
}

// merge resolves each quote's abbreviation, then its label by abbreviation.
// Unresolved fields stay nil.
func (r *Repository) merge(quotes []model.QuoteRecord, names map[string]string) []model.Ticker {
	merged := make([]model.Ticker, 0, len(quotes))
	for _, q := range quotes {
		var abbr, label *string
		if q.TradingSymbol != nil {
			if a, ok := r.symbols.AbbreviationFor(*q.TradingSymbol); ok {
				abbr = &a
				if l, ok := names[a]; ok {
					label = &l
				}
			}
		}
		merged = append(merged, q.ToTicker(abbr, label))
	}
	return merged
}
