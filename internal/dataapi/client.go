package dataapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"wallet-recon/internal/position"
)

// DefaultBaseURL is the Polymarket data API root.
const DefaultBaseURL = "https://data-api.polymarket.com"

// DefaultUserAgent mimics a browser UA to avoid Cloudflare 403s.
const DefaultUserAgent = "Mozilla/5.0"

const maxPageLimit = 500

// Options parameterise the data API client.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// PageDelay is a fixed pause between page fetches, a throttling courtesy
	// towards the public endpoint rather than a correctness requirement.
	PageDelay time.Duration
}

// Client talks to the Polymarket data API.
type Client struct {
	opts   Options
	logger zerolog.Logger
	client *http.Client
}

// NewClient constructs a data API client.
func NewClient(opts Options, logger zerolog.Logger) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	base = strings.TrimRight(base, "/")

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("data api url parse %q: %w", base, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, fmt.Errorf("data api url must be http(s), got %q", base)
	}
	opts.BaseURL = base

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		opts:   opts,
		logger: logger.With().Str("component", "dataapi").Logger(),
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Trades walks the paginated /trades feed. The feed answers either with an
// envelope ({results, nextCursor}) or a plain array; cursors are preferred,
// offsets are the fallback. Pagination stops on an empty page, a missing
// cursor, a short page, or the MaxPages safety valve.
func (c *Client) Trades(ctx context.Context, q TradeQuery) ([]position.RawTrade, error) {
	if q.ConditionID != "" && q.EventID != "" {
		return nil, errors.New("use either condition id or event id, not both")
	}

	limit := q.Limit
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	maxPages := q.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var rows []position.RawTrade
	var cursor string
	offset := 0
	pages := 0

	for {
		params := c.tradeParams(q, limit)
		if cursor != "" {
			params.Set("cursor", cursor)
		} else {
			params.Set("offset", strconv.Itoa(offset))
		}

		body, err := c.get(ctx, "/trades", params)
		if err != nil {
			return rows, err
		}

		batch, nextCursor, isEnvelope, err := decodeTradePage(body)
		if err != nil {
			return rows, err
		}
		if len(batch) == 0 {
			break
		}
		rows = append(rows, batch...)
		pages++

		if isEnvelope {
			cursor = nextCursor
			if cursor == "" || pages >= maxPages {
				break
			}
		} else {
			if len(batch) < limit || pages >= maxPages {
				break
			}
			offset += limit
		}

		if err := c.pause(ctx); err != nil {
			return rows, err
		}
	}

	return rows, nil
}

// Probe issues one small /trades request and returns the row count.
func (c *Client) Probe(ctx context.Context, q TradeQuery) (int, error) {
	if q.ConditionID != "" && q.EventID != "" {
		return 0, errors.New("use either condition id or event id, not both")
	}

	body, err := c.get(ctx, "/trades", c.tradeParams(q, 10))
	if err != nil {
		return 0, err
	}
	batch, _, _, err := decodeTradePage(body)
	if err != nil {
		return 0, err
	}
	return len(batch), nil
}

// Activity walks the offset-paginated /activity feed for one wallet.
func (c *Client) Activity(ctx context.Context, q ActivityQuery) ([]position.RawTrade, error) {
	limit := q.Limit
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}
	maxPages := q.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}

	var rows []position.RawTrade
	offset := 0

	for page := 0; page < maxPages; page++ {
		params := url.Values{}
		params.Set("user", strings.ToLower(q.User))
		if q.Type != "" {
			params.Set("type", q.Type)
		}
		params.Set("limit", strconv.Itoa(limit))
		params.Set("offset", strconv.Itoa(offset))

		body, err := c.get(ctx, "/activity", params)
		if err != nil {
			return rows, err
		}

		var batch []position.RawTrade
		if err := json.Unmarshal(body, &batch); err != nil {
			return rows, fmt.Errorf("dataapi activity: decode: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		rows = append(rows, batch...)
		offset += len(batch)
		if len(batch) < limit {
			break
		}

		if err := c.pause(ctx); err != nil {
			return rows, err
		}
	}

	return rows, nil
}

// MarketPrices looks up current per-outcome prices for each market id. A
// market the API refuses to describe is skipped, not fatal; the valuator
// treats its outcomes as unpriced.
func (c *Client) MarketPrices(ctx context.Context, marketIDs []string) (position.PriceMap, error) {
	prices := make(position.PriceMap, len(marketIDs))

	for _, mid := range marketIDs {
		body, err := c.get(ctx, "/markets/"+url.PathEscape(mid), nil)
		if err != nil {
			if ctx.Err() != nil {
				return prices, ctx.Err()
			}
			c.logger.Warn().Err(err).Str("market", mid).Msg("market price lookup failed")
			continue
		}

		var market struct {
			Outcomes   []marketOutcome `json:"outcomes"`
			Conditions []marketOutcome `json:"conditions"`
		}
		if err := json.Unmarshal(body, &market); err != nil {
			c.logger.Warn().Err(err).Str("market", mid).Msg("market payload not decodable")
			continue
		}

		outs := market.Outcomes
		if len(outs) == 0 {
			outs = market.Conditions
		}

		pm := make(map[string]float64, len(outs))
		for _, o := range outs {
			oid := o.identifier()
			p, ok := o.currentPrice()
			if oid == "" || !ok {
				continue
			}
			pm[oid] = p
		}
		prices[mid] = pm
	}

	return prices, nil
}

type marketOutcome struct {
	ID          json.Number `json:"id"`
	OutcomeID   json.Number `json:"outcomeId"`
	Price       *float64    `json:"price"`
	LastPrice   *float64    `json:"lastPrice"`
	Probability *float64    `json:"probability"`
}

func (o marketOutcome) identifier() string {
	if s := o.ID.String(); s != "" {
		return s
	}
	return o.OutcomeID.String()
}

func (o marketOutcome) currentPrice() (float64, bool) {
	for _, p := range []*float64{o.Price, o.LastPrice, o.Probability} {
		if p != nil {
			return *p, true
		}
	}
	return 0, false
}

func (c *Client) tradeParams(q TradeQuery, limit int) url.Values {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	if q.ConditionID != "" {
		params.Set("market", q.ConditionID)
	} else if q.EventID != "" {
		params.Set("eventId", q.EventID)
	}
	if q.Wallet != "" {
		params.Set("user", strings.ToLower(q.Wallet))
	}

	// Send at most one of makerOnly/takerOnly; "all" means no role filter.
	switch q.Role {
	case "taker":
		params.Set("takerOnly", "true")
	case "maker":
		params.Set("takerOnly", "false")
		params.Set("makerOnly", "true")
	default:
		params.Set("takerOnly", "false")
	}

	return params
}

// decodeTradePage handles both feed shapes: an envelope object with a result
// batch and optional next cursor, or a bare array.
func decodeTradePage(body []byte) (batch []position.RawTrade, nextCursor string, isEnvelope bool, err error) {
	trimmed := strings.TrimLeft(string(body), " \t\r\n")
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, "", false, fmt.Errorf("dataapi trades: decode list: %w", err)
		}
		return batch, "", false, nil
	}

	var env struct {
		Results    []position.RawTrade `json:"results"`
		Data       []position.RawTrade `json:"data"`
		NextCursor string              `json:"nextCursor"`
		Next       string              `json:"next"`
		Cursor     string              `json:"cursor"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, "", true, fmt.Errorf("dataapi trades: decode envelope: %w", err)
	}

	batch = env.Results
	if len(batch) == 0 {
		batch = env.Data
	}
	nextCursor = env.NextCursor
	if nextCursor == "" {
		nextCursor = env.Next
	}
	if nextCursor == "" {
		nextCursor = env.Cursor
	}
	return batch, nextCursor, true, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	endpoint := c.opts.BaseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dataapi %s: status %d: %s", path, resp.StatusCode, snippet(body))
	}
	return body, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 300 {
		return s[:300]
	}
	return s
}

func (c *Client) pause(ctx context.Context) error {
	if c.opts.PageDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.opts.PageDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var (
	_ TradeSource    = (*Client)(nil)
	_ ActivitySource = (*Client)(nil)
	_ PriceSource    = (*Client)(nil)
)
