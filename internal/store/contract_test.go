package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rickgao/coinpulse/internal/model"
)

// runContract exercises the behavior every Store must share.
func runContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		rows, err := s.GetAll(ctx)
		require.NoError(t, err)
		require.Empty(t, rows)
	})

	t.Run("empty upsert", func(t *testing.T) {
		require.NoError(t, s.Upsert(ctx, nil))
		rows, err := s.GetAll(ctx)
		require.NoError(t, err)
		require.Empty(t, rows)
	})

	t.Run("insert then replace", func(t *testing.T) {
		first := []model.TickerRow{
			{
				AbbreviatedName:     "BTC",
				Symbol:              model.Ptr("tBTCUSD"),
				Label:               model.Ptr("Bitcoin"),
				DailyChangeRelative: model.Ptr(0.01),
				LastPrice:           model.Ptr(50000.0),
				LastUpdated:         1000,
			},
			{
				AbbreviatedName: "ETH",
				Symbol:          model.Ptr("tETHUSD"),
				LastUpdated:     1000,
			},
		}
		require.NoError(t, s.Upsert(ctx, first))

		rows, err := s.GetAll(ctx)
		require.NoError(t, err)
		require.ElementsMatch(t, first, rows)

		replaced := model.TickerRow{
			AbbreviatedName: "BTC",
			Symbol:          model.Ptr("tBTCUSD"),
			LastPrice:       model.Ptr(51000.0),
			LastUpdated:     2000,
		}
		require.NoError(t, s.Upsert(ctx, []model.TickerRow{replaced}))

		rows, err = s.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		require.ElementsMatch(t, []model.TickerRow{replaced, first[1]}, rows)
	})
}
