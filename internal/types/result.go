package types

// BacktestResult is the complete output of one engine run. The caller owns
// the value; the engine retains no reference to it after returning.
type BacktestResult struct {
	RunID   string  `json:"run_id"`
	Symbol  string  `json:"symbol"`
	Metrics Metrics `json:"metrics"`
	// Trades are appended in closing order, which is chronological exit order
	// because at most one position is open at a time.
	Trades      []Trade       `json:"trades"`
	EquityCurve []EquityPoint `json:"equity_curve"`
	// DataWarnings carries the quality validator's findings. Presenting them
	// is the caller's job; the engine never logs or prints.
	DataWarnings []string `json:"data_warnings"`
	// BarsProcessed and Interrupted expose partial-run provenance when the
	// run was cancelled between bars.
	BarsProcessed        int     `json:"bars_processed"`
	Interrupted          bool    `json:"interrupted"`
	ExecutionTimeSeconds float64 `json:"execution_time_seconds"`
}
