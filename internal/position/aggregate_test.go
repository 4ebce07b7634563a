package position

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAggregateEndToEnd(t *testing.T) {
	trades := []RawTrade{
		{"conditionId": "M1", "outcomeId": "O1", "user": "0xW", "side": "buy", "size": float64(10), "price": 0.4},
		{"conditionId": "M1", "outcomeId": "O1", "user": "0xw", "side": "sell", "size": float64(4), "price": 0.5},
	}

	res := Aggregate(trades, "0xW")
	require.Len(t, res.Buckets, 1)

	b := res.Buckets[0]
	require.Equal(t, "M1", b.MarketID)
	require.Equal(t, "O1", b.OutcomeID)
	require.InDelta(t, 6.0, b.NetShares, 1e-9)
	require.Equal(t, 2, b.Fills)
	require.InDelta(t, 0.45, b.AvgFillPrice, 1e-9)
	require.Equal(t, 2, res.Included)
}

func TestAggregateZeroDeltaLeavesBucketsUntouched(t *testing.T) {
	base := []RawTrade{
		{"conditionId": "M1", "outcomeId": "O1", "user": "0xw", "side": "buy", "size": float64(10), "price": 0.4},
	}
	inert := RawTrade{"conditionId": "M1", "outcomeId": "O1", "user": "0xother", "side": "buy", "size": float64(99), "price": 0.9}

	before := Aggregate(base, "0xw")
	after := Aggregate(append(append([]RawTrade{}, base...), inert), "0xw")

	require.True(t, reflect.DeepEqual(before.Buckets, after.Buckets),
		"zero-delta trade must not change the bucket set")
	require.Equal(t, 1, after.Unattributed)
}

func TestAggregateBucketUniqueness(t *testing.T) {
	trades := []RawTrade{
		{"conditionId": "M1", "outcomeId": "O1", "user": "0xw", "side": "buy", "size": float64(1)},
		{"conditionId": "M1", "outcomeId": "O1", "user": "0xw", "side": "buy", "size": float64(2)},
		{"conditionId": "M1", "outcomeId": "O2", "user": "0xw", "side": "buy", "size": float64(3)},
		{"conditionId": "M2", "outcomeId": "O1", "user": "0xw", "side": "sell", "size": float64(4)},
	}

	res := Aggregate(trades, "0xw")
	require.Len(t, res.Buckets, 3)

	seen := map[[2]string]bool{}
	for _, b := range res.Buckets {
		key := [2]string{b.MarketID, b.OutcomeID}
		require.False(t, seen[key], "duplicate bucket for %v", key)
		seen[key] = true
	}
}

func TestAggregateAverageInvariant(t *testing.T) {
	trades := []RawTrade{
		{"conditionId": "M1", "outcomeId": "O1", "user": "0xw", "side": "buy", "size": float64(1), "price": 0.25},
		{"conditionId": "M1", "outcomeId": "O1", "user": "0xw", "side": "buy", "size": float64(1), "price": 0.35},
		// Contributes a fill but no price; the mean still divides by all fills.
		{"conditionId": "M1", "outcomeId": "O1", "user": "0xw", "side": "sell", "size": float64(1)},
	}

	res := Aggregate(trades, "0xw")
	require.Len(t, res.Buckets, 1)

	b := res.Buckets[0]
	require.Equal(t, 3, b.Fills)
	require.InDelta(t, 0.25+0.35, b.AvgFillPrice*float64(b.Fills), 1e-9)
}

func TestAggregateSkipsUnbucketableTrades(t *testing.T) {
	trades := []RawTrade{
		{"outcomeId": "O1", "user": "0xw", "side": "buy", "size": float64(1)},
		// No outcome field at all, not even a side label to fall back on.
		{"conditionId": "M1", "user": "0xw", "size": float64(1)},
	}

	res := Aggregate(trades, "0xw")
	require.Empty(t, res.Buckets)
	require.Equal(t, 2, res.Skipped)
	require.Zero(t, res.Unattributed)
}
