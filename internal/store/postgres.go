package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/coinpulse/internal/model"
)

const createTickersTable = `
	CREATE TABLE IF NOT EXISTS tickers (
		abbreviated_name      TEXT PRIMARY KEY CHECK (abbreviated_name <> ''),
		symbol                TEXT,
		daily_change_relative DOUBLE PRECISION,
		last_price            DOUBLE PRECISION,
		label                 TEXT,
		last_updated          BIGINT NOT NULL CHECK (last_updated >= 0)
	)`

const upsertTicker = `
	INSERT INTO tickers (abbreviated_name, symbol, daily_change_relative, last_price, label, last_updated)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (abbreviated_name) DO UPDATE SET
		symbol                = EXCLUDED.symbol,
		daily_change_relative = EXCLUDED.daily_change_relative,
		last_price            = EXCLUDED.last_price,
		label                 = EXCLUDED.label,
		last_updated          = EXCLUDED.last_updated`

const selectTickers = `
	SELECT abbreviated_name, symbol, daily_change_relative, last_price, label, last_updated
	FROM tickers`

// Postgres stores rows in the tickers table.
type Postgres struct {
	db *pgxpool.Pool
}

// NewPostgres wraps an open pool. Call EnsureSchema before first use.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

// EnsureSchema creates the tickers table if it does not exist.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createTickersTable); err != nil {
		return fmt.Errorf("create tickers table: %w", err)
	}
	return nil
}

// Upsert writes all rows in one transaction using a pgx.Batch.
func (p *Postgres) Upsert(ctx context.Context, rows []model.TickerRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(upsertTicker,
			r.AbbreviatedName, r.Symbol, r.DailyChangeRelative, r.LastPrice, r.Label, r.LastUpdated)
	}

	results := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("upsert ticker: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// GetAll implements Store.
func (p *Postgres) GetAll(ctx context.Context) ([]model.TickerRow, error) {
	rows, err := p.db.Query(ctx, selectTickers)
	if err != nil {
		return nil, fmt.Errorf("query tickers: %w", err)
	}

	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.TickerRow, error) {
		var r model.TickerRow
		err := row.Scan(&r.AbbreviatedName, &r.Symbol, &r.DailyChangeRelative, &r.LastPrice, &r.Label, &r.LastUpdated)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan tickers: %w", err)
	}
	return out, nil
}

// Ping implements Pinger.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.db.Close()
}
