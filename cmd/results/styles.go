package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/report"
)

// Style definitions.
var (
	// TitleStyle for headers.
	TitleStyle = lipgloss.NewStyle().Bold(true)

	// HelpStyle for help text.
	HelpStyle = lipgloss.NewStyle().Faint(true)

	// ErrorStyle for error messages.
	ErrorStyle = lipgloss.NewStyle().Bold(true)

	// DetailBoxStyle frames the run detail view.
	DetailBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	// PartialStyle marks interrupted runs.
	PartialStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
)

// formatPercentField renders a summary decimal string as a signed percentage.
func formatPercentField(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}

	return report.FormatPercent(d)
}

// formatCurrencyField renders a summary decimal string as a dollar amount.
func formatCurrencyField(raw string) string {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return raw
	}

	return report.FormatCurrency(d)
}

// formatProfitFactorField renders the nullable profit factor field.
func formatProfitFactorField(raw *string) string {
	if raw == nil {
		return report.FormatProfitFactor(optional.None[decimal.Decimal]())
	}

	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return *raw
	}

	return report.FormatProfitFactor(optional.Some(d))
}

// formatSharpeField renders the nullable Sharpe ratio field.
func formatSharpeField(raw *string) string {
	if raw == nil {
		return report.FormatSharpe(optional.None[decimal.Decimal]())
	}

	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return *raw
	}

	return report.FormatSharpe(optional.Some(d))
}
