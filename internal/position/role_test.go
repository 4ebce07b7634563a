package position

import "testing"

func ptr(f float64) *float64 { return &f }

func TestProxyRolePrecedesMakerTaker(t *testing.T) {
	// The proxy view wins even when maker/taker fields point elsewhere.
	n := NormalizedTrade{
		MarketID:  "m1",
		OutcomeID: "o1",
		Size:      ptr(5),
		Side:      "sell",
		User:      "0xa",
		Maker:     "0xb",
		Taker:     "0xa",
	}
	if got := SignedQuantity(n, "0xa"); got != -5 {
		t.Fatalf("proxy sell should yield -size, got %v", got)
	}
}

func TestProxyMismatchShortCircuits(t *testing.T) {
	n := NormalizedTrade{
		Size:   ptr(5),
		Side:   "buy",
		User:   "0xother",
		Buyer:  "0xa",
		Seller: "0xb",
	}
	if got := SignedQuantity(n, "0xa"); got != 0 {
		t.Fatalf("user presence should suppress buyer/seller resolution, got %v", got)
	}
}

func TestProxyUnrecognizedSide(t *testing.T) {
	n := NormalizedTrade{Size: ptr(5), Side: "hold", User: "0xa"}
	if got := SignedQuantity(n, "0xa"); got != 0 {
		t.Fatalf("unrecognized side has no deterministic sign, got %v", got)
	}
}

func TestBuyerSellerRole(t *testing.T) {
	n := NormalizedTrade{Size: ptr(3), Buyer: "0xa", Seller: "0xb"}
	if got := SignedQuantity(n, "0xa"); got != 3 {
		t.Fatalf("buyer should gain size, got %v", got)
	}
	if got := SignedQuantity(n, "0xb"); got != -3 {
		t.Fatalf("seller should lose size, got %v", got)
	}
	if got := SignedQuantity(n, "0xc"); got != 0 {
		t.Fatalf("bystander should resolve to zero, got %v", got)
	}
}

func TestMakerTakerRole(t *testing.T) {
	cases := []struct {
		side   string
		wallet string
		want   float64
	}{
		{"buy", "0xt", +4},
		{"buy", "0xm", -4},
		{"yes", "0xt", +4},
		{"sell", "0xt", -4},
		{"sell", "0xm", +4},
		{"no", "0xm", +4},
	}
	for _, tc := range cases {
		n := NormalizedTrade{Size: ptr(4), Side: tc.side, Maker: "0xm", Taker: "0xt"}
		if got := SignedQuantity(n, tc.wallet); got != tc.want {
			t.Fatalf("side=%s wallet=%s: got %v, want %v", tc.side, tc.wallet, got, tc.want)
		}
	}
}

func TestMakerTakerNeedsSide(t *testing.T) {
	n := NormalizedTrade{Size: ptr(4), Maker: "0xm", Taker: "0xt"}
	if got := SignedQuantity(n, "0xt"); got != 0 {
		t.Fatalf("maker/taker without side is unresolvable, got %v", got)
	}
}

func TestZeroOrMissingSizeIsInert(t *testing.T) {
	if got := SignedQuantity(NormalizedTrade{Side: "buy", User: "0xa"}, "0xa"); got != 0 {
		t.Fatalf("missing size should be inert, got %v", got)
	}
	if got := SignedQuantity(NormalizedTrade{Size: ptr(0), Side: "buy", User: "0xa"}, "0xa"); got != 0 {
		t.Fatalf("zero size should be inert, got %v", got)
	}
}

func TestNoResolvableRole(t *testing.T) {
	if got := SignedQuantity(NormalizedTrade{Size: ptr(2), Side: "buy"}, "0xa"); got != 0 {
		t.Fatalf("trade without role fields should resolve to zero, got %v", got)
	}
}
