package position

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkToMarketAttachesPrices(t *testing.T) {
	buckets := []Bucket{
		{MarketID: "M1", OutcomeID: "O1", NetShares: 6},
		{MarketID: "M1", OutcomeID: "O2", NetShares: -2},
	}
	prices := PriceMap{"M1": {"O1": 0.5, "O2": 0.25}}

	out := MarkToMarket(buckets, prices)
	require.InDelta(t, 0.5, out[0].CurrentPrice, 1e-9)
	require.InDelta(t, 3.0, out[0].MarkValue, 1e-9)
	require.InDelta(t, -0.5, out[1].MarkValue, 1e-9)
}

func TestMarkToMarketMissingPriceIsNaN(t *testing.T) {
	buckets := []Bucket{
		{MarketID: "M1", OutcomeID: "O1", NetShares: 6},
		{MarketID: "M2", OutcomeID: "O1", NetShares: 1},
	}
	prices := PriceMap{"M1": {}}

	out := MarkToMarket(buckets, prices)
	for _, b := range out {
		require.True(t, math.IsNaN(b.CurrentPrice), "missing price should be NaN")
		require.True(t, math.IsNaN(b.MarkValue), "mark value without price should be NaN")
	}
}

func TestMarkToMarketDoesNotMutateInput(t *testing.T) {
	buckets := []Bucket{{MarketID: "M1", OutcomeID: "O1", NetShares: 6}}
	_ = MarkToMarket(buckets, PriceMap{"M1": {"O1": 0.5}})
	require.Zero(t, buckets[0].CurrentPrice, "input slice must stay untouched")
}
