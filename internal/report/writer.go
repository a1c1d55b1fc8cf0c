package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/tickerlab/stratbench/internal/types"
	"github.com/tickerlab/stratbench/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Summary is the YAML shape of summary.yaml. Decimal values are rendered as
// plain numeric strings so the file parses the same everywhere; absent
// metrics serialize as null.
type Summary struct {
	RunID                string         `yaml:"run_id"`
	Symbol               string         `yaml:"symbol"`
	Interrupted          bool           `yaml:"interrupted"`
	BarsProcessed        int            `yaml:"bars_processed"`
	ExecutionTimeSeconds float64        `yaml:"execution_time_seconds"`
	Metrics              SummaryMetrics `yaml:"metrics"`
	DataWarnings         []string       `yaml:"data_warnings,omitempty"`
}

// SummaryMetrics mirrors types.Metrics with string-encoded decimals.
type SummaryMetrics struct {
	TotalReturn      string  `yaml:"total_return"`
	AnnualizedReturn string  `yaml:"annualized_return"`
	CAGR             string  `yaml:"cagr"`
	WinRate          string  `yaml:"win_rate"`
	ProfitFactor     *string `yaml:"profit_factor"`
	MaxDrawdown      string  `yaml:"max_drawdown"`
	SharpeRatio      *string `yaml:"sharpe_ratio"`
	TotalTrades      int     `yaml:"total_trades"`
	WinningTrades    int     `yaml:"winning_trades"`
	LosingTrades     int     `yaml:"losing_trades"`
	AverageWin       string  `yaml:"average_win"`
	AverageLoss      string  `yaml:"average_loss"`
}

// WriteSummaryYAML writes the run's metrics summary to path.
func WriteSummaryYAML(path string, result *types.BacktestResult) error {
	m := result.Metrics

	doc := Summary{
		RunID:                result.RunID,
		Symbol:               result.Symbol,
		Interrupted:          result.Interrupted,
		BarsProcessed:        result.BarsProcessed,
		ExecutionTimeSeconds: result.ExecutionTimeSeconds,
		Metrics: SummaryMetrics{
			TotalReturn:      m.TotalReturn.String(),
			AnnualizedReturn: m.AnnualizedReturn.String(),
			CAGR:             m.CAGR.String(),
			WinRate:          m.WinRate.String(),
			ProfitFactor:     optionalString(m.ProfitFactor.IsSome(), func() string { return m.ProfitFactor.Unwrap().String() }),
			MaxDrawdown:      m.MaxDrawdown.String(),
			SharpeRatio:      optionalString(m.SharpeRatio.IsSome(), func() string { return m.SharpeRatio.Unwrap().String() }),
			TotalTrades:      m.TotalTrades,
			WinningTrades:    m.WinningTrades,
			LosingTrades:     m.LosingTrades,
			AverageWin:       m.AverageWin.String(),
			AverageLoss:      m.AverageLoss.String(),
		},
		DataWarnings: result.DataWarnings,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to marshal summary", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to write %s", path)
	}

	return nil
}

// ReadSummaryYAML reads a summary.yaml written by WriteSummaryYAML.
func ReadSummaryYAML(path string) (Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, errors.Wrapf(errors.ErrCodeReportReadFailed, err, "failed to read %s", path)
	}

	var doc Summary
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Summary{}, errors.Wrapf(errors.ErrCodeReportReadFailed, err, "failed to parse %s", path)
	}

	return doc, nil
}

// WriteTradesCSV writes the trade list to path, one row per closed trade.
func WriteTradesCSV(path string, trades []types.Trade) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to create %s", path)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	header := []string{
		"id", "symbol", "side", "entry_date", "entry_price",
		"exit_date", "exit_price", "shares", "pnl", "pnl_pct",
		"duration_days", "exit_reason",
	}
	if err := w.Write(header); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write trades header", err)
	}

	for _, trade := range trades {
		record := []string{
			trade.ID,
			trade.Symbol,
			string(trade.Side),
			trade.EntryDate.Format(time.RFC3339),
			trade.EntryPrice.String(),
			trade.ExitDate.Format(time.RFC3339),
			trade.ExitPrice.String(),
			fmt.Sprintf("%d", trade.Shares),
			trade.PnL.String(),
			trade.PnLPct.String(),
			fmt.Sprintf("%d", trade.DurationDays),
			string(trade.ExitReason),
		}

		if err := w.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to write trade row", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to flush trades", err)
	}

	return nil
}

func optionalString(present bool, value func() string) *string {
	if !present {
		return nil
	}

	s := value()

	return &s
}
