package app

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"text/tabwriter"

	"wallet-recon/internal/position"
	"wallet-recon/internal/service"
)

// PositionsOptions hold parameters for a position reconstruction run.
type PositionsOptions struct {
	Wallet      string
	ConditionID string
	EventID     string
	FromDate    string
	ToDate      string
	Role        string
	Limit       int
	Pages       int
	CSVPath     string
	PNGPath     string
}

// Positions reconstructs the wallet's net positions and emits them to the
// console and optionally to CSV/PNG.
func (a *App) Positions(ctx context.Context, opts PositionsOptions) error {
	svc, err := a.newService(false)
	if err != nil {
		return err
	}

	report, err := svc.Positions(ctx, service.PositionsRequest{
		Wallet:      opts.Wallet,
		ConditionID: opts.ConditionID,
		EventID:     opts.EventID,
		FromDate:    opts.FromDate,
		ToDate:      opts.ToDate,
		Role:        opts.Role,
		Limit:       opts.Limit,
		MaxPages:    opts.Pages,
	})
	if err != nil {
		return err
	}

	switch {
	case report.Fetched == 0:
		fmt.Fprintln(os.Stdout, "no trades fetched")
		return nil
	case report.AfterFilter == 0:
		fmt.Fprintf(os.Stdout, "no trades in the selected date windows (%d fetched)\n", report.Fetched)
		return nil
	case len(report.Buckets) == 0:
		fmt.Fprintf(os.Stdout, "no positions for wallet %s (%d trades, %d unattributed)\n",
			opts.Wallet, report.AfterFilter, report.Unattributed)
		return nil
	}

	printBuckets(report.Buckets)

	a.Logger.Info().
		Int("fetched", report.Fetched).
		Int("after_filter", report.AfterFilter).
		Int("positions", len(report.Buckets)).
		Int("unattributed", report.Unattributed).
		Int("skipped", report.Skipped).
		Msg("positions reconstructed")

	if opts.CSVPath != "" {
		if err := writeBucketsCSV(opts.CSVPath, report.Buckets); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Msg("csv written")
	}

	if opts.PNGPath != "" {
		if err := writeBucketsPNG(opts.PNGPath, report.Buckets); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.PNGPath).Msg("chart written")
	}

	return nil
}

func printBuckets(buckets []position.Bucket) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Market\tOutcome\tNet Shares\tFills\tAvg Fill\tCur Price\tMark Value")

	for _, b := range buckets {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%d\t%s\t%s\t%s\n",
			bucketLabel(b.MarketID, b.MarketTitle),
			bucketLabel(b.OutcomeID, b.OutcomeLabel),
			formatFloat(b.NetShares),
			b.Fills,
			formatFloat(b.AvgFillPrice),
			formatFloat(b.CurrentPrice),
			formatFloat(b.MarkValue),
		)
	}

	writer.Flush()
}

func bucketLabel(id, title string) string {
	if title != "" {
		return title
	}
	return id
}

// formatFloat renders a float, with NaN serialized as empty.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
