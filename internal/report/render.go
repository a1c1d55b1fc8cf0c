package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/tickerlab/stratbench/internal/types"
)

// Render writes the human-readable text report for one run: a header,
// the metrics table, the trades table, and any data warnings.
func Render(w io.Writer, result *types.BacktestResult) error {
	var b strings.Builder

	title := fmt.Sprintf("Backtest Report: %s (run %s)", result.Symbol, result.RunID)
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	if result.Interrupted {
		b.WriteString(fmt.Sprintf("PARTIAL RUN: interrupted after %d bars; open position settled at the last processed close.\n\n",
			result.BarsProcessed))
	}

	renderMetrics(&b, result)
	renderTrades(&b, result.Trades)
	renderWarnings(&b, result.DataWarnings)

	b.WriteString(fmt.Sprintf("Processed %d bars in %.3fs.\n", result.BarsProcessed, result.ExecutionTimeSeconds))

	_, err := io.WriteString(w, b.String())

	return err
}

func renderMetrics(b *strings.Builder, result *types.BacktestResult) {
	m := result.Metrics

	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "Metrics")
	fmt.Fprintf(tw, "  Total Return\t%s\n", FormatPercent(m.TotalReturn))
	fmt.Fprintf(tw, "  Annualized Return\t%s\n", FormatPercent(m.AnnualizedReturn))
	fmt.Fprintf(tw, "  CAGR\t%s\n", FormatPercent(m.CAGR))
	fmt.Fprintf(tw, "  Max Drawdown\t%s\n", FormatPercent(m.MaxDrawdown))
	fmt.Fprintf(tw, "  Sharpe Ratio\t%s\n", FormatSharpe(m.SharpeRatio))
	fmt.Fprintf(tw, "  Total Trades\t%d (%d won, %d lost)\n", m.TotalTrades, m.WinningTrades, m.LosingTrades)
	fmt.Fprintf(tw, "  Win Rate\t%s\n", FormatPercent(m.WinRate))
	fmt.Fprintf(tw, "  Profit Factor\t%s\n", FormatProfitFactor(m.ProfitFactor))
	fmt.Fprintf(tw, "  Average Win\t%s\n", FormatCurrency(m.AverageWin))
	fmt.Fprintf(tw, "  Average Loss\t%s\n", FormatCurrency(m.AverageLoss))
	tw.Flush()

	b.WriteString("\n")
}

func renderTrades(b *strings.Builder, trades []types.Trade) {
	b.WriteString("Trades\n")

	if len(trades) == 0 {
		b.WriteString("  none\n\n")

		return
	}

	tw := tabwriter.NewWriter(b, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "  #\tSide\tEntry\tEntry Px\tExit\tExit Px\tShares\tPnL\tPnL %\tDays\tReason")

	for i, trade := range trades {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%d\t%s\n",
			i+1,
			trade.Side,
			trade.EntryDate.Format(time.DateOnly),
			FormatDecimal(trade.EntryPrice, 2),
			trade.ExitDate.Format(time.DateOnly),
			FormatDecimal(trade.ExitPrice, 2),
			trade.Shares,
			FormatCurrency(trade.PnL),
			FormatPercent(trade.PnLPct),
			trade.DurationDays,
			trade.ExitReason,
		)
	}

	tw.Flush()
	b.WriteString("\n")
}

func renderWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}

	b.WriteString("Data Warnings\n")

	for _, warning := range warnings {
		b.WriteString("  - " + warning + "\n")
	}

	b.WriteString("\n")
}
