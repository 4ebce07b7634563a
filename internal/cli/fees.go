package cli

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"wallet-recon/internal/app"
)

var (
	feesWallet  string
	feesType    string
	feesLimit   int
	feesPages   int
	feesWorkers int
	feesCSVPath string
)

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Enrich wallet activity with reconciled on-chain gas fees",
	RunE: func(cmd *cobra.Command, args []string) error {
		wallet := strings.TrimSpace(feesWallet)
		if wallet == "" {
			return fmt.Errorf("--wallet must be provided")
		}
		if !common.IsHexAddress(wallet) {
			return fmt.Errorf("invalid wallet address %q", wallet)
		}

		a := getApp()
		opts := app.FeesOptions{
			Wallet:  strings.ToLower(wallet),
			CSVPath: feesCSVPath,
		}

		opts.ActivityType = feesType
		if opts.ActivityType == "" {
			opts.ActivityType = a.Config.Fees.ActivityType
		}
		opts.Limit = feesLimit
		if opts.Limit <= 0 {
			opts.Limit = a.Config.Fees.Limit
		}
		opts.Pages = feesPages
		if opts.Pages <= 0 {
			opts.Pages = a.Config.Fees.MaxPages
		}
		opts.Workers = feesWorkers
		if opts.Workers <= 0 {
			opts.Workers = a.Config.Fees.Workers
		}

		return a.Fees(cmd.Context(), opts)
	},
}

func init() {
	feesCmd.Flags().StringVar(&feesWallet, "wallet", "", "Wallet address (0x...)")
	feesCmd.Flags().StringVar(&feesType, "type", "", "Activity type filter (e.g. MERGE)")
	feesCmd.Flags().IntVar(&feesLimit, "limit", 0, "Per-page limit (API max 500)")
	feesCmd.Flags().IntVar(&feesPages, "pages", 0, "Maximum pages to fetch")
	feesCmd.Flags().IntVar(&feesWorkers, "workers", 0, "Concurrent fee resolutions")
	feesCmd.Flags().StringVar(&feesCSVPath, "csv", "", "Path to write enriched CSV")
}
