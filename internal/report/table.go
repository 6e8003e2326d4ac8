// Package report renders scan and backtest results for humans: console
// tables and a portfolio timeline chart.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wonny/steamflip/internal/backtest"
	"github.com/wonny/steamflip/internal/contracts"
)

var usd = message.NewPrinter(language.English)

// money renders a USD amount with thousands separators.
func money(v float64) string {
	return usd.Sprintf("$%.2f", v)
}

// WriteSignalTable renders live scan results as a console table, in the
// order the scanner produced them (most profitable first).
func WriteSignalTable(w io.Writer, signals []contracts.Signal) {
	table := tablewriter.NewWriter(w)
	table.Header("Item", "Strategy", "Buy", "Sell", "Ratio", "Exp. Profit", "Sales/Day")

	for _, sig := range signals {
		table.Append(
			sig.ItemName,
			sig.Strategy,
			money(sig.BuyPrice),
			money(sig.SellPrice),
			fmt.Sprintf("%.2f", sig.Ratio),
			money(sig.ExpectedProfit),
			fmt.Sprintf("%.1f", sig.SalesPerDay),
		)
	}
	table.Render()
}

// WriteBacktestSummary renders the outcome of one backtest run.
func WriteBacktestSummary(w io.Writer, res *backtest.Result) {
	fmt.Fprintf(w, "🧪 백테스트 %s (%s)\n", res.RunID, res.Strategy)
	fmt.Fprintf(w, "   기간: %s, 매수 %d건\n", res.Duration.Round(time.Millisecond), len(res.Purchases))

	table := tablewriter.NewWriter(w)
	table.Header("Outcome", "Count", "Share")

	total := len(res.Purchases)
	rows := []struct {
		label string
		count int
	}{
		{"Sold Phase 1", len(res.Buckets.SoldPhase1)},
		{"Sold Phase 2", len(res.Buckets.SoldPhase2)},
		{"Never Sold", len(res.Buckets.NeverSold)},
	}
	for _, row := range rows {
		share := 0.0
		if total > 0 {
			share = float64(row.count) / float64(total) * 100
		}
		table.Append(row.label, fmt.Sprintf("%d", row.count), fmt.Sprintf("%.1f%%", share))
	}
	table.Render()

	fmt.Fprintf(w, "   실현 수익: %s | 묶인 자본: %s | 순수익: %s\n",
		money(res.Summary.RealizedProfit),
		money(res.Summary.SunkCost),
		money(res.Summary.NetProfit))

	if len(res.Summary.HoldingHistogram) > 0 {
		fmt.Fprintln(w, "   보유 기간 분포:")
		WriteHoldingHistogram(w, res.Summary.HoldingHistogram)
	}
}

// WriteHoldingHistogram renders the holding-time distribution, one row per
// whole-day bucket.
func WriteHoldingHistogram(w io.Writer, histogram map[int]int) {
	maxBucket := 0
	for bucket := range histogram {
		if bucket > maxBucket {
			maxBucket = bucket
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header("Held", "Sales")
	for bucket := 0; bucket <= maxBucket; bucket++ {
		count, ok := histogram[bucket]
		if !ok {
			continue
		}
		table.Append(fmt.Sprintf("%d–%dd", bucket, bucket+1), fmt.Sprintf("%d", count))
	}
	table.Render()
}
