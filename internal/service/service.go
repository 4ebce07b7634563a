package service

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"wallet-recon/internal/coingecko"
	"wallet-recon/internal/dataapi"
	"wallet-recon/internal/fees"
	"wallet-recon/internal/position"
	"wallet-recon/internal/timewindow"
)

// Service sequences the reconciliation pipeline: fetch, window filter,
// aggregate, mark-to-market, fee-reconcile. All collaborators sit behind
// narrow interfaces so the core runs against deterministic fakes in tests.
type Service struct {
	trades   dataapi.TradeSource
	activity dataapi.ActivitySource
	prices   dataapi.PriceSource
	fees     fees.Resolver
	quote    coingecko.QuoteSource
	windower *timewindow.Windower
	logger   zerolog.Logger
}

// New constructs the service. Collaborators a command does not exercise may
// be nil.
func New(trades dataapi.TradeSource, activity dataapi.ActivitySource, prices dataapi.PriceSource, feeResolver fees.Resolver, quote coingecko.QuoteSource, windower *timewindow.Windower, logger zerolog.Logger) *Service {
	return &Service{
		trades:   trades,
		activity: activity,
		prices:   prices,
		fees:     feeResolver,
		quote:    quote,
		windower: windower,
		logger:   logger.With().Str("component", "service").Logger(),
	}
}

// PositionsRequest parameterises a position reconstruction run.
type PositionsRequest struct {
	Wallet      string
	ConditionID string
	EventID     string
	FromDate    string
	ToDate      string
	Role        string
	Limit       int
	MaxPages    int
}

// PositionsReport is the finalized, enriched outcome of one run. The stage
// counters let callers distinguish "nothing fetched" from "everything
// filtered out" from "no resolvable positions".
type PositionsReport struct {
	Buckets      []position.Bucket
	Windows      []timewindow.Window
	Fetched      int
	AfterFilter  int
	Unattributed int
	Skipped      int
	TZDegraded   bool
}

// Positions runs the full position pipeline for one wallet.
func (s *Service) Positions(ctx context.Context, req PositionsRequest) (*PositionsReport, error) {
	report := &PositionsReport{TZDegraded: s.windower.Degraded()}
	if report.TZDegraded {
		s.logger.Warn().Msg("time zone database unavailable, treating local dates as UTC")
	}

	var windows []timewindow.Window
	if req.FromDate != "" && req.ToDate != "" {
		var err error
		windows, err = s.windower.Windows(req.FromDate, req.ToDate)
		if err != nil {
			return nil, err
		}
	}
	report.Windows = windows

	query := dataapi.TradeQuery{
		ConditionID: req.ConditionID,
		EventID:     req.EventID,
		Wallet:      req.Wallet,
		Role:        req.Role,
		Limit:       req.Limit,
		MaxPages:    req.MaxPages,
	}

	if n, err := s.trades.Probe(ctx, query); err != nil {
		s.logger.Warn().Err(err).Msg("probe request failed")
	} else {
		s.logger.Info().Int("rows", n).Msg("probe")
	}

	raw, err := s.trades.Trades(ctx, query)
	if err != nil {
		if len(raw) == 0 {
			return nil, err
		}
		// Partial results survive a broken pagination loop.
		s.logger.Warn().Err(err).Int("rows", len(raw)).Msg("pagination aborted, keeping partial results")
	}
	report.Fetched = len(raw)
	if len(raw) == 0 {
		s.logger.Info().Msg("no trades fetched")
		return report, nil
	}

	filtered := filterByWindows(raw, windows)
	report.AfterFilter = len(filtered)
	if len(filtered) == 0 {
		s.logger.Info().Int("fetched", report.Fetched).Msg("no trades inside the date windows")
		return report, nil
	}

	agg := position.Aggregate(filtered, req.Wallet)
	report.Unattributed = agg.Unattributed
	report.Skipped = agg.Skipped
	if agg.Unattributed > 0 {
		s.logger.Info().Int("unattributed", agg.Unattributed).Msg("trades resolved to zero delta for this wallet")
	}
	if len(agg.Buckets) == 0 {
		s.logger.Info().Int("after_filter", report.AfterFilter).Msg("no positions after aggregation")
		return report, nil
	}

	marketIDs := uniqueMarketIDs(agg.Buckets)
	prices, err := s.prices.MarketPrices(ctx, marketIDs)
	if err != nil {
		s.logger.Warn().Err(err).Msg("price lookup incomplete, marking best-effort")
	}

	buckets := position.MarkToMarket(agg.Buckets, prices)
	sortByMarkValue(buckets)
	report.Buckets = buckets
	return report, nil
}

// LeaderboardRequest parameterises a gross-activity leaderboard run.
type LeaderboardRequest struct {
	ConditionID string
	EventID     string
	FromDate    string
	ToDate      string
	Role        string
	Limit       int
	MaxPages    int
	Top         int
}

// LeaderboardReport holds per-wallet gross aggregates and the top-N views.
type LeaderboardReport struct {
	Stats       map[string]*position.WalletStats
	ByTrades    []*position.WalletStats
	ByNotional  []*position.WalletStats
	Fetched     int
	AfterFilter int
	Aggregated  int
}

// Leaderboard aggregates gross per-wallet activity. When the date filter
// leaves nothing, the unfiltered set is aggregated instead so a tight window
// still produces a recent-activity view.
func (s *Service) Leaderboard(ctx context.Context, req LeaderboardRequest) (*LeaderboardReport, error) {
	var windows []timewindow.Window
	if req.FromDate != "" && req.ToDate != "" {
		var err error
		windows, err = s.windower.Windows(req.FromDate, req.ToDate)
		if err != nil {
			return nil, err
		}
	}

	raw, err := s.trades.Trades(ctx, dataapi.TradeQuery{
		ConditionID: req.ConditionID,
		EventID:     req.EventID,
		Role:        req.Role,
		Limit:       req.Limit,
		MaxPages:    req.MaxPages,
	})
	if err != nil {
		if len(raw) == 0 {
			return nil, err
		}
		s.logger.Warn().Err(err).Int("rows", len(raw)).Msg("pagination aborted, keeping partial results")
	}

	report := &LeaderboardReport{Fetched: len(raw)}
	if len(raw) == 0 {
		return report, nil
	}

	filtered := filterByWindows(raw, windows)
	report.AfterFilter = len(filtered)

	records := filtered
	if len(records) == 0 {
		records = raw
	}
	report.Aggregated = len(records)

	report.Stats = position.AggregateWallets(records)
	report.ByTrades = position.TopByTrades(report.Stats, req.Top)
	report.ByNotional = position.TopByNotional(report.Stats, req.Top)
	return report, nil
}

// FeeRequest parameterises a fee enrichment run.
type FeeRequest struct {
	Wallet       string
	ActivityType string
	Limit        int
	MaxPages     int
	Workers      int
}

// FeeRow is one activity record enriched with its reconciled gas cost.
type FeeRow struct {
	Raw      position.RawTrade
	TxHash   string
	Fee      fees.Record
	FeeQuote *decimal.Decimal
	NetQuote *decimal.Decimal
	Note     string
}

// FeeReport is the outcome of a fee enrichment run.
type FeeReport struct {
	Rows       []FeeRow
	QuotePrice decimal.Decimal
	QuoteLive  bool
	TxCount    int
	TotalFee   decimal.Decimal
	TotalQuote decimal.Decimal
}

var txHashKeys = []string{"transactionHash", "txHash", "transaction_hash"}

// Fees fetches the wallet's activity rows and attaches reconciled gas fees.
// Unique hashes resolve through a bounded worker pool; the reconciler's
// cache guarantees one computation per hash regardless of worker count.
func (s *Service) Fees(ctx context.Context, req FeeRequest) (*FeeReport, error) {
	quotePrice, live := s.quote.Quote(ctx)
	s.logger.Info().Str("quote", quotePrice.String()).Bool("live", live).Msg("quote price resolved")

	rows, err := s.activity.Activity(ctx, dataapi.ActivityQuery{
		User:     req.Wallet,
		Type:     req.ActivityType,
		Limit:    req.Limit,
		MaxPages: req.MaxPages,
	})
	if err != nil {
		if len(rows) == 0 {
			return nil, err
		}
		s.logger.Warn().Err(err).Int("rows", len(rows)).Msg("activity pagination aborted, keeping partial results")
	}

	report := &FeeReport{QuotePrice: quotePrice, QuoteLive: live}
	if len(rows) == 0 {
		s.logger.Info().Msg("no activity rows fetched")
		return report, nil
	}

	hashes := uniqueTxHashes(rows)
	s.resolveAll(ctx, hashes, req.Workers)

	for _, raw := range rows {
		row := FeeRow{Raw: raw, TxHash: extractTxHash(raw)}
		if row.TxHash == "" {
			row.Note = "no_txhash"
			report.Rows = append(report.Rows, row)
			continue
		}

		row.Fee = s.fees.Resolve(ctx, row.TxHash)
		row.Note = row.Fee.Note
		row.FeeQuote = row.Fee.FeeInQuote(quotePrice)
		row.NetQuote = netAfterFee(raw, row.FeeQuote)

		if row.Fee.FeeNative != nil {
			report.TxCount++
			report.TotalFee = report.TotalFee.Add(*row.Fee.FeeNative)
			report.TotalQuote = report.TotalQuote.Add(*row.FeeQuote)
		}
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

// resolveAll warms the fee cache for every hash using at most workers
// concurrent resolutions. Individual failures live inside each Record.
func (s *Service) resolveAll(ctx context.Context, hashes []string, workers int) {
	if workers <= 1 || len(hashes) <= 1 {
		for _, h := range hashes {
			s.fees.Resolve(ctx, h)
		}
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, h := range hashes {
		g.Go(func() error {
			s.fees.Resolve(ctx, h)
			return nil
		})
	}
	_ = g.Wait()
}

func filterByWindows(trades []position.RawTrade, windows []timewindow.Window) []position.RawTrade {
	if len(windows) == 0 {
		return trades
	}
	out := make([]position.RawTrade, 0, len(trades))
	for _, t := range trades {
		ts, ok := timewindow.TimestampSeconds(t)
		if !ok {
			continue
		}
		if timewindow.InAny(ts, windows) {
			out = append(out, t)
		}
	}
	return out
}

func uniqueMarketIDs(buckets []position.Bucket) []string {
	seen := make(map[string]struct{}, len(buckets))
	var ids []string
	for _, b := range buckets {
		if _, ok := seen[b.MarketID]; ok {
			continue
		}
		seen[b.MarketID] = struct{}{}
		ids = append(ids, b.MarketID)
	}
	sort.Strings(ids)
	return ids
}

func uniqueTxHashes(rows []position.RawTrade) []string {
	seen := make(map[string]struct{}, len(rows))
	var hashes []string
	for _, r := range rows {
		h := extractTxHash(r)
		if h == "" {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		hashes = append(hashes, h)
	}
	return hashes
}

func extractTxHash(r position.RawTrade) string {
	for _, k := range txHashKeys {
		if s, ok := r[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func netAfterFee(raw position.RawTrade, feeQuote *decimal.Decimal) *decimal.Decimal {
	if feeQuote == nil {
		return nil
	}
	v, ok := raw["usdcSize"]
	if !ok {
		return nil
	}
	size, err := decimal.NewFromString(stringify(v))
	if err != nil || size.IsZero() {
		return nil
	}
	net := size.Sub(*feeQuote)
	return &net
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return decimal.NewFromFloat(t).String()
	default:
		return ""
	}
}

func sortByMarkValue(buckets []position.Bucket) {
	value := func(b position.Bucket) float64 {
		if math.IsNaN(b.MarkValue) {
			return math.Inf(-1)
		}
		return b.MarkValue
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return value(buckets[i]) > value(buckets[j])
	})
}
