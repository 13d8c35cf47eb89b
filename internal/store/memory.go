package store

import (
	"context"
	"sync"

	"github.com/rickgao/coinpulse/internal/model"
)

// Memory is an in-process Store. Rows keep their first-insert position.
type Memory struct {
	mu    sync.RWMutex
	index map[string]int
	rows  []model.TickerRow
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{index: make(map[string]int)}
}

// Upsert implements Store.
func (m *Memory) Upsert(ctx context.Context, rows []model.TickerRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range rows {
		if i, ok := m.index[r.AbbreviatedName]; ok {
			m.rows[i] = r
			continue
		}
		m.index[r.AbbreviatedName] = len(m.rows)
		m.rows = append(m.rows, r)
	}
	return nil
}

// GetAll implements Store.
func (m *Memory) GetAll(ctx context.Context) ([]model.TickerRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.TickerRow, len(m.rows))
	copy(out, m.rows)
	return out, nil
}
