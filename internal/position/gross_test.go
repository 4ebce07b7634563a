package position

import "testing"

func TestAggregateWalletsMakerTakerMode(t *testing.T) {
	trades := []RawTrade{
		{"maker": "0xm", "taker": "0xt", "size": float64(10), "price": 0.4, "side": "BUY"},
		{"maker": "0xm", "taker": "0xt2", "size": float64(5), "price": 0.2, "side": "SELL"},
	}

	agg := AggregateWallets(trades)
	if len(agg) != 3 {
		t.Fatalf("expected 3 wallets, got %d", len(agg))
	}

	m := agg["0xm"]
	if m.Trades != 2 || m.TradesMaker != 2 {
		t.Fatalf("maker leg misattributed: %+v", m)
	}
	if got := m.GrossNotional; got != 10*0.4+5*0.2 {
		t.Fatalf("gross notional wrong: %v", got)
	}
	if m.BuyCount != 1 || m.SellCount != 1 {
		t.Fatalf("side counters wrong: %+v", m)
	}

	tk := agg["0xt"]
	if tk.TradesTaker != 1 || tk.GrossNotionalTaker != 4.0 {
		t.Fatalf("taker leg misattributed: %+v", tk)
	}
}

func TestAggregateWalletsSingleKeyMode(t *testing.T) {
	trades := []RawTrade{
		{"proxyWallet": "0xa", "size": float64(2), "price": 0.5, "side": "buy", "liquidityRole": "MAKER"},
		{"proxyWallet": "0xa", "size": float64(2), "price": 0.5, "side": "sell"},
		{"proxyWallet": "0xb", "size": float64(1), "price": 1.0, "outcome": "Yes"},
	}

	agg := AggregateWallets(trades)
	a := agg["0xa"]
	if a.Trades != 2 || a.TradesMaker != 1 {
		t.Fatalf("role detection failed: %+v", a)
	}

	b := agg["0xb"]
	if b.BuyCount != 1 {
		t.Fatalf("yes outcome should count as buy: %+v", b)
	}
}

func TestTopOrderingAndShare(t *testing.T) {
	agg := map[string]*WalletStats{
		"0xa": {Wallet: "0xa", Trades: 5, GrossNotional: 100},
		"0xb": {Wallet: "0xb", Trades: 9, GrossNotional: 50},
		"0xc": {Wallet: "0xc", Trades: 1, GrossNotional: 250},
	}

	byTrades := TopByTrades(agg, 2)
	if len(byTrades) != 2 || byTrades[0].Wallet != "0xb" {
		t.Fatalf("trade ordering wrong: %+v", byTrades)
	}

	byNotional := TopByNotional(agg, 10)
	if byNotional[0].Wallet != "0xc" || byNotional[2].Wallet != "0xb" {
		t.Fatalf("notional ordering wrong: %+v", byNotional)
	}

	top, pct, ok := ShareOfTotal(agg)
	if !ok || top.Wallet != "0xc" {
		t.Fatalf("share winner wrong: %+v", top)
	}
	if pct != 250.0/400.0*100 {
		t.Fatalf("share pct wrong: %v", pct)
	}
}

func TestShareOfTotalEmpty(t *testing.T) {
	if _, _, ok := ShareOfTotal(map[string]*WalletStats{}); ok {
		t.Fatal("empty set should report no share")
	}
}
