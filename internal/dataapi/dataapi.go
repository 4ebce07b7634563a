package dataapi

import (
	"context"

	"wallet-recon/internal/position"
)

// TradeQuery selects a slice of the paginated /trades feed. ConditionID and
// EventID are mutually exclusive; Role is "maker", "taker", or "all".
type TradeQuery struct {
	ConditionID string
	EventID     string
	Wallet      string
	Role        string
	Limit       int
	MaxPages    int
}

// ActivityQuery selects rows from the /activity feed for one wallet.
type ActivityQuery struct {
	User     string
	Type     string // e.g. "MERGE"
	Limit    int
	MaxPages int
}

// TradeSource is the paginated trade feed boundary.
type TradeSource interface {
	// Trades fetches up to MaxPages pages. On a mid-pagination transport
	// failure it returns the rows accumulated so far together with the error;
	// partial results are never discarded.
	Trades(ctx context.Context, q TradeQuery) ([]position.RawTrade, error)
	// Probe issues a single small request and reports the row count, as a
	// cheap pre-flight check that the query matches anything.
	Probe(ctx context.Context, q TradeQuery) (int, error)
}

// ActivitySource is the wallet activity feed boundary.
type ActivitySource interface {
	Activity(ctx context.Context, q ActivityQuery) ([]position.RawTrade, error)
}

// PriceSource resolves current per-outcome prices for a set of markets.
// Markets or outcomes the venue knows nothing about are simply absent.
type PriceSource interface {
	MarketPrices(ctx context.Context, marketIDs []string) (position.PriceMap, error)
}
