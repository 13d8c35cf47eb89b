// Package store persists cached ticker rows.
//
// Every backend implements upsert-by-abbreviation and a full scan:
//   - Memory: process-local map (tests, single instance)
//   - Postgres: tickers table, batched INSERT ... ON CONFLICT DO UPDATE
//   - Redis: one hash, field per abbreviation, JSON-encoded row
package store

import (
	"context"

	"github.com/rickgao/coinpulse/internal/model"
)

// Store is a durable key-value table of ticker rows keyed by abbreviation.
type Store interface {
	// Upsert inserts rows or replaces existing rows with the same key.
	Upsert(ctx context.Context, rows []model.TickerRow) error

	// GetAll returns every row. Order is not significant.
	GetAll(ctx context.Context) ([]model.TickerRow, error)
}

// Pinger is implemented by stores backed by a remote service.
type Pinger interface {
	Ping(ctx context.Context) error
}
