package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/rickgao/coinpulse/internal/model"
)

// Redis stores rows as JSON values in a single hash.
type Redis struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

// NewRedis creates a Redis store writing to the hash at key.
func NewRedis(client *redis.Client, key string, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, key: key, logger: logger}
}

// Upsert sets one hash field per row inside MULTI/EXEC.
func (r *Redis) Upsert(ctx context.Context, rows []model.TickerRow) error {
	if len(rows) == 0 {
		return nil
	}

	values := make([]any, 0, len(rows)*2)
	for _, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode ticker %s: %w", row.AbbreviatedName, err)
		}
		values = append(values, row.AbbreviatedName, data)
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.key, values...)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("hset tickers: %w", err)
	}
	return nil
}

// GetAll returns all rows sorted by abbreviation. Undecodable fields are skipped.
func (r *Redis) GetAll(ctx context.Context) ([]model.TickerRow, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall tickers: %w", err)
	}

	out := make([]model.TickerRow, 0, len(fields))
	for field, value := range fields {
		var row model.TickerRow
		if err := json.Unmarshal([]byte(value), &row); err != nil {
			r.logger.Warn("skipping undecodable ticker row", "field", field, "err", err)
			continue
		}
		row.AbbreviatedName = field
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].AbbreviatedName < out[j].AbbreviatedName
	})
	return out, nil
}

// Ping implements Pinger.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.client.Close()
}
