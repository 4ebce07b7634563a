package app

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/big"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"wallet-recon/internal/service"
)

// FeesOptions hold parameters for a fee enrichment run.
type FeesOptions struct {
	Wallet       string
	ActivityType string
	Limit        int
	Pages        int
	Workers      int
	CSVPath      string
}

// The activity feed's identified fields, in the order the original export
// used them; the derived fee columns follow.
var feeBaseColumns = []string{
	"proxyWallet", "timestamp", "conditionId", "type", "size", "usdcSize", "transactionHash",
	"price", "asset", "side", "outcomeIndex", "title", "slug", "icon", "eventSlug",
	"outcome", "name", "pseudonym", "bio", "profileImage", "profileImageOptimized",
}

var feeExtraColumns = []string{
	"gasUsed", "effectiveGasPrice", "gasPrice", "feeWei",
	"feeMATIC", "maticPriceUSDC", "feeUSDC", "netUSDC_after_fee", "fee_note",
}

// Fees enriches the wallet's activity with reconciled on-chain gas costs and
// prints a run summary.
func (a *App) Fees(ctx context.Context, opts FeesOptions) error {
	svc, err := a.newService(true)
	if err != nil {
		return err
	}

	report, err := svc.Fees(ctx, service.FeeRequest{
		Wallet:       opts.Wallet,
		ActivityType: opts.ActivityType,
		Limit:        opts.Limit,
		MaxPages:     opts.Pages,
		Workers:      opts.Workers,
	})
	if err != nil {
		return err
	}

	if len(report.Rows) == 0 {
		fmt.Fprintln(os.Stdout, "no activity rows fetched")
		return nil
	}

	if opts.CSVPath != "" {
		if err := writeFeesCSV(opts.CSVPath, report); err != nil {
			return err
		}
		a.Logger.Info().Str("path", opts.CSVPath).Int("rows", len(report.Rows)).Msg("csv written")
	}

	printFeeSummary(report)
	return nil
}

func writeFeesCSV(path string, report *service.FeeReport) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append(append([]string{}, feeBaseColumns...), feeExtraColumns...)
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range report.Rows {
		record := make([]string, 0, len(header))
		for _, col := range feeBaseColumns {
			record = append(record, rawCell(row.Raw[col]))
		}
		record = append(record,
			bigCell(row.Fee.GasUsed),
			bigCell(row.Fee.EffectiveGasPrice),
			bigCell(row.Fee.GasPrice),
			bigCell(row.Fee.FeeWei),
			decimalCell(row.Fee.FeeNative),
			report.QuotePrice.String(),
			decimalCell(row.FeeQuote),
			decimalCell(row.NetQuote),
			row.Note,
		)
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func printFeeSummary(report *service.FeeReport) {
	fmt.Fprintln(os.Stdout, "========== FEE SUMMARY ==========")
	fmt.Fprintf(os.Stdout, "Rows:                  %d\n", len(report.Rows))
	fmt.Fprintf(os.Stdout, "Transactions with fee: %d\n", report.TxCount)
	fmt.Fprintf(os.Stdout, "Quote price:           %s (live=%t)\n", report.QuotePrice.StringFixed(4), report.QuoteLive)
	fmt.Fprintf(os.Stdout, "Total gas:             %s MATIC (%s USDC)\n",
		report.TotalFee.StringFixed(6), report.TotalQuote.StringFixed(6))
	if report.TxCount > 0 {
		n := decimal.NewFromInt(int64(report.TxCount))
		fmt.Fprintf(os.Stdout, "Average fee:           %s MATIC (%s USDC)\n",
			report.TotalFee.Div(n).StringFixed(6), report.TotalQuote.Div(n).StringFixed(6))
	}
	fmt.Fprintln(os.Stdout, "=================================")
}

// rawCell renders an arbitrary feed value; absent fields serialize as empty.
func rawCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func bigCell(n *big.Int) string {
	if n == nil {
		return ""
	}
	return n.String()
}

func decimalCell(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
