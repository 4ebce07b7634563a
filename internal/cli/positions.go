package cli

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"wallet-recon/internal/app"
)

var (
	positionsWallet    string
	positionsCondition string
	positionsEvent     string
	positionsFrom      string
	positionsTo        string
	positionsRole      string
	positionsLimit     int
	positionsPages     int
	positionsCSVPath   string
	positionsPNGPath   string
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Reconstruct a wallet's net positions with mark-to-market values",
	RunE: func(cmd *cobra.Command, args []string) error {
		wallet := strings.TrimSpace(positionsWallet)
		if wallet == "" {
			return fmt.Errorf("--wallet must be provided")
		}
		if !common.IsHexAddress(wallet) {
			return fmt.Errorf("invalid wallet address %q", wallet)
		}
		if positionsCondition != "" && positionsEvent != "" {
			return fmt.Errorf("use either --condition or --event, not both")
		}
		if (positionsFrom == "") != (positionsTo == "") {
			return fmt.Errorf("--from and --to must be provided together")
		}

		a := getApp()
		opts := app.PositionsOptions{
			Wallet:      strings.ToLower(wallet),
			ConditionID: positionsCondition,
			EventID:     positionsEvent,
			FromDate:    positionsFrom,
			ToDate:      positionsTo,
			Role:        resolveRole(positionsRole, a),
			Limit:       resolveLimit(positionsLimit, a),
			Pages:       resolvePages(positionsPages, a),
			CSVPath:     positionsCSVPath,
			PNGPath:     positionsPNGPath,
		}

		return a.Positions(cmd.Context(), opts)
	},
}

func init() {
	positionsCmd.Flags().StringVar(&positionsWallet, "wallet", "", "Wallet address (0x...)")
	positionsCmd.Flags().StringVar(&positionsCondition, "condition", "", "Condition/market id to read trades from")
	positionsCmd.Flags().StringVar(&positionsEvent, "event", "", "Event id to read trades from")
	positionsCmd.Flags().StringVar(&positionsFrom, "from", "", "Start date (YYYY-MM-DD, local to the configured zone)")
	positionsCmd.Flags().StringVar(&positionsTo, "to", "", "End date (YYYY-MM-DD, inclusive)")
	positionsCmd.Flags().StringVar(&positionsRole, "role", "", "Role filter: maker, taker, or all")
	positionsCmd.Flags().IntVar(&positionsLimit, "limit", 0, "Per-page limit (API max 500)")
	positionsCmd.Flags().IntVar(&positionsPages, "pages", 0, "Maximum pages to fetch")
	positionsCmd.Flags().StringVar(&positionsCSVPath, "csv", "", "Path to write positions CSV")
	positionsCmd.Flags().StringVar(&positionsPNGPath, "png", "", "Path to write mark-value chart PNG")
}

func resolveRole(flag string, a *app.App) string {
	if flag != "" {
		return flag
	}
	return a.Config.Fetch.Role
}

func resolveLimit(flag int, a *app.App) int {
	if flag > 0 {
		return flag
	}
	return a.Config.Fetch.Limit
}

func resolvePages(flag int, a *app.App) int {
	if flag > 0 {
		return flag
	}
	return a.Config.Fetch.MaxPages
}
