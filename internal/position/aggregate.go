package position

import "strings"

// Bucket accumulates a wallet's net exposure in one (market, outcome) pair.
type Bucket struct {
	MarketID     string
	MarketTitle  string
	OutcomeID    string
	OutcomeLabel string
	NetShares    float64
	Fills        int
	AvgFillPrice float64
	CurrentPrice float64 // NaN until mark-to-market finds a price
	MarkValue    float64 // NaN until mark-to-market finds a price

	priceSum float64
}

type bucketKey struct {
	marketID  string
	outcomeID string
}

// Result is the outcome of folding a trade sequence for one wallet.
type Result struct {
	Buckets []Bucket
	// Included counts trades that contributed a non-zero delta.
	Included int
	// Unattributed counts includable trades where no role resolved, so the
	// wallet's delta was zero. Kept as a diagnostic: a high count usually
	// means an unrecognized schema variant, not genuinely inert trades.
	Unattributed int
	// Skipped counts trades missing market or outcome identifiers.
	Skipped int
}

// Aggregate folds raw trades into per-(market, outcome) buckets for the
// target wallet. Trades that net to zero exposure leave the bucket set
// untouched. Bucket order is unspecified; callers sort.
func Aggregate(trades []RawTrade, wallet string) Result {
	wallet = strings.ToLower(wallet)
	buckets := make(map[bucketKey]*Bucket)
	var res Result

	for _, t := range trades {
		n := Normalize(t)
		if !n.Includable() {
			res.Skipped++
			continue
		}

		dq := SignedQuantity(n, wallet)
		if dq == 0 {
			res.Unattributed++
			continue
		}

		key := bucketKey{marketID: n.MarketID, outcomeID: n.OutcomeID}
		b, ok := buckets[key]
		if !ok {
			b = &Bucket{
				MarketID:     n.MarketID,
				MarketTitle:  n.MarketTitle,
				OutcomeID:    n.OutcomeID,
				OutcomeLabel: n.OutcomeLabel,
			}
			buckets[key] = b
		}

		b.NetShares += dq
		if n.Price != nil {
			b.priceSum += *n.Price
		}
		b.Fills++
		res.Included++
	}

	res.Buckets = make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		fills := b.Fills
		if fills < 1 {
			fills = 1
		}
		b.AvgFillPrice = b.priceSum / float64(fills)
		res.Buckets = append(res.Buckets, *b)
	}
	return res
}
