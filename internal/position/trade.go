package position

import (
	"encoding/json"
	"strconv"
	"strings"

	"wallet-recon/internal/timewindow"
)

// RawTrade is one record as returned by the feed. Key sets vary between
// endpoints and schema revisions; normalization maps them onto one shape.
type RawTrade map[string]any

// Field resolution tables. Order is a public contract: it decides which
// upstream schema variants win, so new variants are appended, never
// reshuffled.
var (
	marketIDKeys    = []string{"conditionId", "market", "marketId", "market_id", "eventId"}
	marketTitleKeys = []string{"title", "marketTitle", "marketName", "label"}
	outcomeLblKeys  = []string{"outcome", "outcomeLabel", "side"}
	outcomeIDKeys   = []string{"outcomeToken", "outcomeId", "outcome_id", "outcomeIndex"}
	sizeKeys        = []string{"size", "quantity", "amount"}
	sideKeys        = []string{"side", "type", "action", "outcome"}
	proxyKeys       = []string{"proxyWallet", "wallet", "user"}
	makerKeys       = []string{"maker", "makerAddress"}
	takerKeys       = []string{"taker", "takerAddress"}
)

// NormalizedTrade is the canonical view of one raw record. Optional numeric
// fields are nil when the source carried nothing usable; wallet and side
// fields are lower-cased, empty when absent.
type NormalizedTrade struct {
	MarketID     string
	MarketTitle  string
	OutcomeID    string
	OutcomeLabel string
	Price        *float64
	Size         *float64
	Timestamp    *int64
	Side         string
	User         string
	Maker        string
	Taker        string
	Buyer        string
	Seller       string
}

// Includable reports whether the trade can be bucketed at all. A trade
// missing either identifier has nowhere to go.
func (n NormalizedTrade) Includable() bool {
	return n.MarketID != "" && n.OutcomeID != ""
}

// Normalize maps a raw record into a NormalizedTrade. It is a pure function:
// the same record always yields the same result.
func Normalize(t RawTrade) NormalizedTrade {
	n := NormalizedTrade{
		MarketID:    firstString(t, marketIDKeys),
		MarketTitle: firstString(t, marketTitleKeys),
	}

	n.OutcomeLabel = firstString(t, outcomeLblKeys)
	n.OutcomeID = firstString(t, outcomeIDKeys)
	if n.OutcomeID == "" && n.OutcomeLabel != "" {
		// Last resort: the label itself, uppercased, stands in as the id.
		n.OutcomeID = strings.ToUpper(n.OutcomeLabel)
	}

	n.Price = floatField(t, "price")
	for _, k := range sizeKeys {
		if f := floatField(t, k); f != nil {
			n.Size = f
			break
		}
	}

	if ts, ok := timewindow.TimestampSeconds(t); ok {
		n.Timestamp = &ts
	}

	n.Side = strings.ToLower(firstString(t, sideKeys))
	n.User = lowerWallet(t, proxyKeys)
	n.Maker = lowerWallet(t, makerKeys)
	n.Taker = lowerWallet(t, takerKeys)
	n.Buyer = lowerWallet(t, []string{"buyer"})
	n.Seller = lowerWallet(t, []string{"seller"})

	return n
}

func firstString(t RawTrade, keys []string) string {
	for _, k := range keys {
		if s := coerceString(t[k]); s != "" {
			return s
		}
	}
	return ""
}

func lowerWallet(t RawTrade, keys []string) string {
	for _, k := range keys {
		if s, ok := t[k].(string); ok && s != "" {
			return strings.ToLower(s)
		}
	}
	return ""
}

func floatField(t RawTrade, key string) *float64 {
	f, ok := coerceFloat(t[key])
	if !ok {
		return nil
	}
	return &f
}

func coerceString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	}
	return ""
}

func coerceFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f, true
		}
	case string:
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}
