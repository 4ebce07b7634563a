package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"wallet-recon/internal/position"
	"wallet-recon/internal/service"
)

// LeaderboardOptions hold parameters for a gross-activity leaderboard run.
type LeaderboardOptions struct {
	ConditionID string
	EventID     string
	FromDate    string
	ToDate      string
	Role        string
	Limit       int
	Pages       int
	Top         int
}

// Leaderboard aggregates gross per-wallet activity and prints the top
// wallets by trade count and by notional.
func (a *App) Leaderboard(ctx context.Context, opts LeaderboardOptions) error {
	svc, err := a.newService(false)
	if err != nil {
		return err
	}

	report, err := svc.Leaderboard(ctx, service.LeaderboardRequest{
		ConditionID: opts.ConditionID,
		EventID:     opts.EventID,
		FromDate:    opts.FromDate,
		ToDate:      opts.ToDate,
		Role:        opts.Role,
		Limit:       opts.Limit,
		MaxPages:    opts.Pages,
		Top:         opts.Top,
	})
	if err != nil {
		return err
	}

	if report.Fetched == 0 {
		fmt.Fprintln(os.Stdout, "no trades fetched")
		return nil
	}

	a.Logger.Info().
		Int("fetched", report.Fetched).
		Int("after_filter", report.AfterFilter).
		Int("aggregated", report.Aggregated).
		Int("wallets", len(report.Stats)).
		Msg("leaderboard aggregated")

	fmt.Fprintf(os.Stdout, "Top %d by number of trades:\n", opts.Top)
	printWalletStats(report.ByTrades)

	fmt.Fprintf(os.Stdout, "\nTop %d by gross notional:\n", opts.Top)
	printWalletStats(report.ByNotional)

	if top, pct, ok := position.ShareOfTotal(report.Stats); ok {
		fmt.Fprintf(os.Stdout, "\nTop wallet %s holds %.2f%% of total notional\n", top.Wallet, pct)
	}

	return nil
}

func printWalletStats(stats []*position.WalletStats) {
	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Wallet\tTrades\tMaker\tTaker\tGross Size\tGross Notional\tBuys\tSells")
	for _, s := range stats {
		fmt.Fprintf(writer, "%s\t%d\t%d\t%d\t%.4f\t$%.2f\t%d\t%d\n",
			s.Wallet, s.Trades, s.TradesMaker, s.TradesTaker,
			s.GrossSize, s.GrossNotional, s.BuyCount, s.SellCount)
	}
	writer.Flush()
}
