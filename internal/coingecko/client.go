package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the CoinGecko public API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// QuoteSource resolves the run-wide native-to-quote price scalar. The bool
// reports whether the price came from the live source or the static fallback.
type QuoteSource interface {
	Quote(ctx context.Context) (decimal.Decimal, bool)
}

// Options parameterise the quote fetcher.
type Options struct {
	BaseURL  string
	TokenID  string // e.g. "matic-network"
	Currency string // e.g. "usd"
	Fallback decimal.Decimal
	Timeout  time.Duration
}

// Client fetches a single spot price from CoinGecko.
type Client struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewClient builds a quote client.
func NewClient(opts Options, logger zerolog.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		opts:   opts,
		logger: logger.With().Str("component", "coingecko").Logger(),
		client: &http.Client{Timeout: timeout},
	}
}

// Quote returns the token price in the quote currency, or the configured
// fallback when the source is unreachable or the payload unusable. The
// second return value is false when the fallback was used.
func (c *Client) Quote(ctx context.Context) (decimal.Decimal, bool) {
	price, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("fallback", c.opts.Fallback.String()).
			Msg("quote source unavailable, using static fallback")
		return c.opts.Fallback, false
	}
	return price, true
}

func (c *Client) fetch(ctx context.Context) (decimal.Decimal, error) {
	q := url.Values{}
	q.Set("ids", c.opts.TokenID)
	q.Set("vs_currencies", c.opts.Currency)

	endpoint := c.opts.BaseURL + "/simple/price?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, fmt.Errorf("coingecko simple/price: status %d", resp.StatusCode)
	}

	var payload map[string]map[string]json.Number
	if err := json.Unmarshal(body, &payload); err != nil {
		return decimal.Decimal{}, fmt.Errorf("coingecko simple/price: decode: %w", err)
	}

	raw, ok := payload[c.opts.TokenID][c.opts.Currency]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("coingecko simple/price: no %s/%s entry", c.opts.TokenID, c.opts.Currency)
	}

	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("coingecko simple/price: parse %q: %w", raw.String(), err)
	}
	return price, nil
}

var _ QuoteSource = (*Client)(nil)
