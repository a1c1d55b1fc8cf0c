package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/tickerlab/stratbench/internal/report"
)

// RunEntry is one run directory discovered under the results root.
type RunEntry struct {
	Dir      string
	Strategy string
	Summary  report.Summary
}

// NewRunsTable creates the table listing discovered runs.
func NewRunsTable() table.Model {
	columns := []table.Column{
		{Title: "Symbol", Width: 10},
		{Title: "Strategy", Width: 20},
		{Title: "Return", Width: 12},
		{Title: "Max DD", Width: 12},
		{Title: "Trades", Width: 8},
		{Title: "Win Rate", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateRunsRows fills the table with one row per run.
func UpdateRunsRows(t table.Model, runs []RunEntry) table.Model {
	rows := make([]table.Row, 0, len(runs))

	for _, run := range runs {
		m := run.Summary.Metrics

		rows = append(rows, table.Row{
			run.Summary.Symbol,
			run.Strategy,
			formatPercentField(m.TotalReturn),
			formatPercentField(m.MaxDrawdown),
			fmt.Sprintf("%d", m.TotalTrades),
			formatPercentField(m.WinRate),
		})
	}

	t.SetRows(rows)

	return t
}

// RenderRunDetail renders the full summary of one run.
func RenderRunDetail(run RunEntry) string {
	doc := run.Summary
	m := doc.Metrics

	var b strings.Builder

	b.WriteString(fmt.Sprintf("Run ID        %s\n", doc.RunID))
	b.WriteString(fmt.Sprintf("Symbol        %s\n", doc.Symbol))
	b.WriteString(fmt.Sprintf("Strategy      %s\n", run.Strategy))
	b.WriteString(fmt.Sprintf("Bars          %d\n", doc.BarsProcessed))
	b.WriteString(fmt.Sprintf("Run Time      %.3fs\n", doc.ExecutionTimeSeconds))

	if doc.Interrupted {
		b.WriteString(PartialStyle.Render("PARTIAL RUN (interrupted)"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total Return       %s\n", formatPercentField(m.TotalReturn)))
	b.WriteString(fmt.Sprintf("Annualized Return  %s\n", formatPercentField(m.AnnualizedReturn)))
	b.WriteString(fmt.Sprintf("CAGR               %s\n", formatPercentField(m.CAGR)))
	b.WriteString(fmt.Sprintf("Max Drawdown       %s\n", formatPercentField(m.MaxDrawdown)))
	b.WriteString(fmt.Sprintf("Sharpe Ratio       %s\n", formatSharpeField(m.SharpeRatio)))
	b.WriteString(fmt.Sprintf("Total Trades       %d (%d won, %d lost)\n", m.TotalTrades, m.WinningTrades, m.LosingTrades))
	b.WriteString(fmt.Sprintf("Win Rate           %s\n", formatPercentField(m.WinRate)))
	b.WriteString(fmt.Sprintf("Profit Factor      %s\n", formatProfitFactorField(m.ProfitFactor)))
	b.WriteString(fmt.Sprintf("Average Win        %s\n", formatCurrencyField(m.AverageWin)))
	b.WriteString(fmt.Sprintf("Average Loss       %s", formatCurrencyField(m.AverageLoss)))

	if len(doc.DataWarnings) > 0 {
		b.WriteString("\n\nData Warnings\n")

		for i, warning := range doc.DataWarnings {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(fmt.Sprintf("  - %s", warning))
		}
	}

	return DetailBoxStyle.Render(b.String())
}
