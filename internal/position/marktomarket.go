package position

import "math"

// PriceMap holds current per-outcome prices keyed by market id then outcome id.
type PriceMap map[string]map[string]float64

// MarkToMarket attaches current price and mark value to each bucket. Missing
// prices produce NaN, never an error; valuation is best-effort enrichment.
// The input slice is not modified.
func MarkToMarket(buckets []Bucket, prices PriceMap) []Bucket {
	out := make([]Bucket, len(buckets))
	for i, b := range buckets {
		cp := math.NaN()
		if outcomes, ok := prices[b.MarketID]; ok {
			if p, ok := outcomes[b.OutcomeID]; ok {
				cp = p
			}
		}
		b.CurrentPrice = cp
		if math.IsNaN(cp) {
			b.MarkValue = math.NaN()
		} else {
			b.MarkValue = b.NetShares * cp
		}
		out[i] = b
	}
	return out
}
