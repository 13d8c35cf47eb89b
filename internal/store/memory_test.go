package store

import (
	"context"
	"testing"

	"github.com/rickgao/coinpulse/internal/model"
)

func TestMemoryContract(t *testing.T) {
	runContract(t, NewMemory())
}

func TestMemoryKeepsInsertOrder(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_ = m.Upsert(ctx, []model.TickerRow{{AbbreviatedName: "ZRO"}, {AbbreviatedName: "BTC"}})
	_ = m.Upsert(ctx, []model.TickerRow{{AbbreviatedName: "ZRO", LastUpdated: 5}})

	rows, _ := m.GetAll(ctx)
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].AbbreviatedName != "ZRO" || rows[0].LastUpdated != 5 {
		t.Errorf("rows[0] = %+v, want ZRO updated in place", rows[0])
	}
	if rows[1].AbbreviatedName != "BTC" {
		t.Errorf("rows[1] = %s, want BTC", rows[1].AbbreviatedName)
	}
}

func TestMemoryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMemory()
	if err := m.Upsert(ctx, []model.TickerRow{{AbbreviatedName: "BTC"}}); err == nil {
		t.Error("Upsert with cancelled context: expected error")
	}
	if _, err := m.GetAll(ctx); err == nil {
		t.Error("GetAll with cancelled context: expected error")
	}
}

func TestMemoryReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_ = m.Upsert(ctx, []model.TickerRow{{AbbreviatedName: "BTC", LastUpdated: 1}})

	rows, _ := m.GetAll(ctx)
	rows[0].LastUpdated = 99

	again, _ := m.GetAll(ctx)
	if again[0].LastUpdated != 1 {
		t.Errorf("LastUpdated = %d, want 1", again[0].LastUpdated)
	}
}
