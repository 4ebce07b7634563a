package position

import (
	"sort"
	"strings"
)

// WalletStats accumulates gross (unsigned) activity for one wallet across a
// trade set. Unlike Bucket this does not net out direction; it measures flow.
type WalletStats struct {
	Wallet             string
	Trades             int
	TradesMaker        int
	TradesTaker        int
	GrossSize          float64
	GrossNotional      float64
	GrossNotionalMaker float64
	GrossNotionalTaker float64
	BuyCount           int
	BuyNotional        float64
	SellCount          int
	SellNotional       float64
}

var singleWalletKeys = []string{
	"proxyWallet", "wallet", "user", "account", "trader",
	"userAddress", "traderAddress", "address", "owner", "pseudonym",
}

var fallbackWalletKeys = []string{"wallet", "user", "account", "trader", "address", "owner"}

// AggregateWallets builds a per-wallet gross activity leaderboard from raw
// trades. The wallet key schema is detected once from the first record that
// exposes one; maker/taker records attribute both legs.
func AggregateWallets(trades []RawTrade) map[string]*WalletStats {
	agg := make(map[string]*WalletStats)

	singleKey := detectSingleWalletKey(trades)

	for _, t := range trades {
		size, _ := coerceFloat(t["size"])
		price, _ := coerceFloat(t["price"])
		side := firstString(t, []string{"side", "outcome", "type"})

		mk, hasMaker := t["maker"].(string)
		tk, hasTaker := t["taker"].(string)
		if hasMaker && hasTaker {
			if mk != "" {
				addGross(agg, mk, "maker", size, price, side)
			}
			if tk != "" {
				addGross(agg, tk, "taker", size, price, side)
			}
			continue
		}

		if singleKey != "" {
			if w, ok := t[singleKey].(string); ok && w != "" {
				addGross(agg, w, detectRole(t), size, price, side)
				continue
			}
		}

		for _, k := range fallbackWalletKeys {
			if w, ok := t[k].(string); ok && w != "" {
				addGross(agg, w, "", size, price, side)
				break
			}
		}
	}
	return agg
}

func detectSingleWalletKey(trades []RawTrade) string {
	for _, t := range trades {
		if _, mk := t["maker"]; mk {
			if _, tk := t["taker"]; tk {
				return ""
			}
		}
		for _, k := range singleWalletKeys {
			if _, ok := t[k]; ok {
				return k
			}
		}
	}
	return ""
}

func detectRole(t RawTrade) string {
	if lr, ok := firstStringValue(t, "liquidityRole", "role"); ok {
		lr = strings.ToLower(lr)
		if strings.Contains(lr, "maker") {
			return "maker"
		}
		if strings.Contains(lr, "taker") {
			return "taker"
		}
	}
	if t["taker"] == true || t["isTaker"] == true {
		return "taker"
	}
	if t["maker"] == true || t["isMaker"] == true {
		return "maker"
	}
	return ""
}

func firstStringValue(t RawTrade, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := t[k].(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

func addGross(agg map[string]*WalletStats, wallet, role string, size, price float64, side string) {
	a, ok := agg[wallet]
	if !ok {
		a = &WalletStats{Wallet: wallet}
		agg[wallet] = a
	}

	notional := size * price
	a.Trades++
	a.GrossSize += size
	a.GrossNotional += notional

	switch role {
	case "maker":
		a.TradesMaker++
		a.GrossNotionalMaker += notional
	case "taker":
		a.TradesTaker++
		a.GrossNotionalTaker += notional
	}

	if side != "" {
		s := strings.ToLower(side)
		switch {
		case strings.Contains(s, "buy") || s == "yes":
			a.BuyCount++
			a.BuyNotional += notional
		case strings.Contains(s, "sell") || s == "no":
			a.SellCount++
			a.SellNotional += notional
		}
	}
}

// TopByTrades returns up to n wallets ordered by trade count descending.
func TopByTrades(agg map[string]*WalletStats, n int) []*WalletStats {
	return topBy(agg, n, func(a, b *WalletStats) bool { return a.Trades > b.Trades })
}

// TopByNotional returns up to n wallets ordered by gross notional descending.
func TopByNotional(agg map[string]*WalletStats, n int) []*WalletStats {
	return topBy(agg, n, func(a, b *WalletStats) bool { return a.GrossNotional > b.GrossNotional })
}

func topBy(agg map[string]*WalletStats, n int, less func(a, b *WalletStats) bool) []*WalletStats {
	out := make([]*WalletStats, 0, len(agg))
	for _, a := range agg {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ShareOfTotal returns the top wallet's percentage share of total gross
// notional, and false when the set is empty or has zero notional.
func ShareOfTotal(agg map[string]*WalletStats) (top *WalletStats, pct float64, ok bool) {
	var total float64
	for _, a := range agg {
		total += a.GrossNotional
		if top == nil || a.GrossNotional > top.GrossNotional {
			top = a
		}
	}
	if top == nil || total == 0 {
		return nil, 0, false
	}
	return top, top.GrossNotional / total * 100, true
}
