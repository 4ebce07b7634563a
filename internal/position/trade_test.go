package position

import (
	"reflect"
	"testing"
)

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := RawTrade{
		"conditionId": "0xCOND",
		"outcome":     "Yes",
		"price":       0.42,
		"size":        float64(12),
		"timestamp":   float64(1760486400),
		"proxyWallet": "0xABCD",
		"side":        "BUY",
	}

	first := Normalize(raw)
	second := Normalize(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("normalization not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestNormalizeFieldPriority(t *testing.T) {
	raw := RawTrade{
		"conditionId": "cond-1",
		"market":      "mkt-1",
		"marketId":    "mkt-2",
		"outcomeId":   "out-1",
		"outcomeToken": "tok-1",
	}
	n := Normalize(raw)
	if n.MarketID != "cond-1" {
		t.Fatalf("conditionId should win, got %q", n.MarketID)
	}
	if n.OutcomeID != "tok-1" {
		t.Fatalf("outcomeToken should win, got %q", n.OutcomeID)
	}

	delete(raw, "conditionId")
	if n := Normalize(raw); n.MarketID != "mkt-1" {
		t.Fatalf("market should be next in priority, got %q", n.MarketID)
	}
}

func TestNormalizeOutcomeLabelFallback(t *testing.T) {
	n := Normalize(RawTrade{"market": "m1", "outcome": "Yes"})
	if n.OutcomeLabel != "Yes" {
		t.Fatalf("label should pass through, got %q", n.OutcomeLabel)
	}
	if n.OutcomeID != "YES" {
		t.Fatalf("outcome id should fall back to uppercased label, got %q", n.OutcomeID)
	}
}

func TestNormalizeNumericIdentifiers(t *testing.T) {
	n := Normalize(RawTrade{"eventId": float64(57489), "outcomeIndex": float64(1)})
	if n.MarketID != "57489" {
		t.Fatalf("numeric eventId should stringify, got %q", n.MarketID)
	}
	if n.OutcomeID != "1" {
		t.Fatalf("numeric outcomeIndex should stringify, got %q", n.OutcomeID)
	}
}

func TestNormalizeWalletsAndSideLowerCased(t *testing.T) {
	n := Normalize(RawTrade{
		"market":  "m1",
		"outcome": "No",
		"maker":   "0xAAA",
		"taker":   "0xBBB",
		"buyer":   "0xCCC",
		"seller":  "0xDDD",
		"user":    "0xEEE",
		"side":    "SELL",
	})
	if n.Maker != "0xaaa" || n.Taker != "0xbbb" || n.Buyer != "0xccc" || n.Seller != "0xddd" || n.User != "0xeee" {
		t.Fatalf("wallet fields should be lower-cased: %+v", n)
	}
	if n.Side != "sell" {
		t.Fatalf("side should be lower-cased, got %q", n.Side)
	}
}

func TestNormalizeSizeAlternates(t *testing.T) {
	if n := Normalize(RawTrade{"quantity": "7.5"}); n.Size == nil || *n.Size != 7.5 {
		t.Fatalf("quantity should be read as size: %+v", n.Size)
	}
	if n := Normalize(RawTrade{"amount": float64(3)}); n.Size == nil || *n.Size != 3 {
		t.Fatalf("amount should be read as size: %+v", n.Size)
	}
}

func TestIncludableRequiresBothIdentifiers(t *testing.T) {
	if Normalize(RawTrade{"market": "m1"}).Includable() {
		t.Fatal("trade without outcome id should not be includable")
	}
	if Normalize(RawTrade{"outcome": "Yes"}).Includable() {
		t.Fatal("trade without market id should not be includable")
	}
	if !Normalize(RawTrade{"market": "m1", "outcome": "Yes"}).Includable() {
		t.Fatal("trade with both identifiers should be includable")
	}
}
