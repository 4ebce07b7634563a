package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func testOptions(baseURL string) Options {
	return Options{
		BaseURL:  baseURL,
		TokenID:  "matic-network",
		Currency: "usd",
		Fallback: decimal.RequireFromString("0.50"),
	}
}

func TestQuoteLive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "ids=matic-network") || !strings.Contains(r.URL.RawQuery, "vs_currencies=usd") {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"matic-network":{"usd":0.4312}}`))
	}))
	defer srv.Close()

	price, live := NewClient(testOptions(srv.URL), zerolog.Nop()).Quote(context.Background())
	if !live {
		t.Fatal("expected live quote")
	}
	if !price.Equal(decimal.RequireFromString("0.4312")) {
		t.Fatalf("price = %v", price)
	}
}

func TestQuoteFallbackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	price, live := NewClient(testOptions(srv.URL), zerolog.Nop()).Quote(context.Background())
	if live {
		t.Fatal("expected fallback quote")
	}
	if !price.Equal(decimal.RequireFromString("0.50")) {
		t.Fatalf("price = %v", price)
	}
}

func TestQuoteFallbackOnMissingEntry(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"matic-network":{}}`))
	}))
	defer srv.Close()

	price, live := NewClient(testOptions(srv.URL), zerolog.Nop()).Quote(context.Background())
	if live {
		t.Fatal("expected fallback quote")
	}
	if !price.Equal(decimal.RequireFromString("0.50")) {
		t.Fatalf("price = %v", price)
	}
}
