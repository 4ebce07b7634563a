package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"wallet-recon/internal/app"
)

var (
	leaderboardCondition string
	leaderboardEvent     string
	leaderboardFrom      string
	leaderboardTo        string
	leaderboardRole      string
	leaderboardLimit     int
	leaderboardPages     int
	leaderboardTop       int
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Rank wallets by gross trading activity on a market or event",
	RunE: func(cmd *cobra.Command, args []string) error {
		if leaderboardCondition == "" && leaderboardEvent == "" {
			return fmt.Errorf("one of --condition or --event must be provided")
		}
		if leaderboardCondition != "" && leaderboardEvent != "" {
			return fmt.Errorf("use either --condition or --event, not both")
		}
		if (leaderboardFrom == "") != (leaderboardTo == "") {
			return fmt.Errorf("--from and --to must be provided together")
		}
		if leaderboardTop <= 0 {
			return fmt.Errorf("--top must be greater than zero")
		}

		a := getApp()
		opts := app.LeaderboardOptions{
			ConditionID: leaderboardCondition,
			EventID:     leaderboardEvent,
			FromDate:    leaderboardFrom,
			ToDate:      leaderboardTo,
			Role:        resolveRole(leaderboardRole, a),
			Limit:       resolveLimit(leaderboardLimit, a),
			Pages:       resolvePages(leaderboardPages, a),
			Top:         leaderboardTop,
		}

		return a.Leaderboard(cmd.Context(), opts)
	},
}

func init() {
	leaderboardCmd.Flags().StringVar(&leaderboardCondition, "condition", "", "Condition/market id to read trades from")
	leaderboardCmd.Flags().StringVar(&leaderboardEvent, "event", "", "Event id to read trades from")
	leaderboardCmd.Flags().StringVar(&leaderboardFrom, "from", "", "Start date (YYYY-MM-DD)")
	leaderboardCmd.Flags().StringVar(&leaderboardTo, "to", "", "End date (YYYY-MM-DD, inclusive)")
	leaderboardCmd.Flags().StringVar(&leaderboardRole, "role", "", "Role filter: maker, taker, or all")
	leaderboardCmd.Flags().IntVar(&leaderboardLimit, "limit", 0, "Per-page limit (API max 500)")
	leaderboardCmd.Flags().IntVar(&leaderboardPages, "pages", 0, "Maximum pages to fetch")
	leaderboardCmd.Flags().IntVar(&leaderboardTop, "top", 10, "Number of wallets to display")
}
