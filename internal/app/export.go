package app

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"

	"wallet-recon/internal/position"
)

var bucketCSVHeader = []string{
	"market_id", "market_title", "outcome_id", "outcome_label",
	"net_shares", "fills", "avg_fill_price", "current_price", "mark_value",
}

func writeBucketsCSV(path string, buckets []position.Bucket) error {
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

	if err := writer.Write(bucketCSVHeader); err != nil {
		return err
	}

	for _, b := range buckets {
		record := []string{
			b.MarketID,
			b.MarketTitle,
			b.OutcomeID,
			b.OutcomeLabel,
			formatFloat(b.NetShares),
			strconv.Itoa(b.Fills),
			formatFloat(b.AvgFillPrice),
			formatFloat(b.CurrentPrice),
			formatFloat(b.MarkValue),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

// writeBucketsPNG renders mark values per outcome as a bar chart. Unpriced
// buckets cannot be drawn and are left out.
func writeBucketsPNG(path string, buckets []position.Bucket) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var bars []chart.Value
	for _, b := range buckets {
		if math.IsNaN(b.MarkValue) {
			continue
		}
		bars = append(bars, chart.Value{
			Label: bucketLabel(b.OutcomeID, b.OutcomeLabel),
			Value: b.MarkValue,
		})
	}
	if len(bars) == 0 {
		return fmt.Errorf("no priced positions to chart")
	}

	graph := chart.BarChart{
		Title:    "Mark value by outcome",
		Width:    1280,
		Height:   720,
		BarWidth: 40,
		Bars:     bars,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return chart.FloatValueFormatterWithFormat(v, "%.2f")
			},
		},
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
