package backtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/backtest/commission"
	"github.com/tickerlab/stratbench/internal/config"
	"github.com/tickerlab/stratbench/internal/metrics"
	"github.com/tickerlab/stratbench/internal/quality"
	"github.com/tickerlab/stratbench/internal/strategy"
	"github.com/tickerlab/stratbench/internal/types"
	"github.com/tickerlab/stratbench/pkg/errors"
)

// Engine drives one backtest: validate the series, walk the bars in order,
// convert strategy decisions into fills, keep the ledger, and assemble the
// result. One Engine value runs sequentially; distinct engines may run in
// parallel because they share no mutable state.
type Engine struct {
	cfg        config.BacktestConfig
	strategy   strategy.Strategy
	simulator  *Simulator
	validator  *quality.Validator
	onProgress func(current, total int)
	now        func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithOnProgress registers a callback invoked after every processed bar
// with the running count and the total. Used by the CLI's progress bar.
func WithOnProgress(fn func(current, total int)) Option {
	return func(e *Engine) {
		e.onProgress = fn
	}
}

// WithClock overrides the wall clock used for the execution-time
// measurement. Tests use it to pin timings.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New validates the config, resolves the commission model, and wires an
// engine around the given strategy. The strategy must already be
// initialized; the engine only ever calls Decide.
func New(cfg config.BacktestConfig, strat strategy.Strategy, opts ...Option) (*Engine, error) {
	if strat == nil {
		return nil, errors.New(errors.ErrCodeEngineNotReady, "engine requires a strategy")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	model, err := commission.FromConfig(cfg.Commission)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		strategy:  strat,
		simulator: NewSimulator(cfg.SlippagePct, model),
		validator: quality.NewValidator(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// protectiveExit is a stop or take trigger detected against a bar's range.
type protectiveExit struct {
	price  decimal.Decimal
	reason types.ExitReason
}

// Run executes the simulation over the series and returns the result. Data
// defects fatal to the ordering invariant abort before any ledger state
// exists; recoverable defects ride along as warnings on the result.
//
// Cancellation is cooperative at bar granularity: when ctx is done the loop
// stops before the next bar and the run settles exactly like end of data,
// returning a partial result flagged Interrupted rather than an error.
func (e *Engine) Run(ctx context.Context, series types.BarSeries) (*types.BacktestResult, error) {
	start := e.now()

	warnings, err := e.validator.Validate(series)
	if err != nil {
		return nil, err
	}

	ledger := NewLedger(series.Symbol, e.cfg.InitialCapital)
	recorder := NewRecorder()

	total := len(series.Bars)
	barsProcessed := 0
	interrupted := false

	for i, bar := range series.Bars {
		if ctx.Err() != nil {
			interrupted = true

			break
		}

		// Protective exits resolve against the bar range before the
		// strategy sees the bar; the strategy is then consulted flat and
		// may re-enter on this same bar.
		if pos := ledger.Position(); pos.IsSome() {
			if exit, ok := checkProtective(pos.Unwrap(), bar); ok {
				fill := e.simulator.ForceClose(pos.Unwrap(), bar.Time, exit.price)

				transition, err := ledger.Close(fill)
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvariantViolated, "protective close rejected", err)
				}

				recorder.Record(transition, exit.reason)
			}
		}

		sctx := strategy.NewContext(series.Symbol, series.Bars[:i+1], i, ledger.Position(), ledger.Cash())

		signal, err := e.strategy.Decide(sctx)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeStrategyDecideFailed, err,
				"strategy %s failed on bar %d", e.strategy.Name(), i)
		}

		if err := signal.Validate(); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidSignal, err,
				"strategy %s returned an invalid signal on bar %d", e.strategy.Name(), i)
		}

		if fill := e.simulator.Fill(series.Symbol, signal, bar, ledger.Position(), ledger.Cash()); fill.IsSome() {
			if err := e.apply(ledger, recorder, fill.Unwrap(), signal); err != nil {
				return nil, err
			}
		}

		ledger.MarkToMarket(bar)

		barsProcessed = i + 1
		if e.onProgress != nil {
			e.onProgress(barsProcessed, total)
		}
	}

	// Natural end and cancellation settle the same way: any open position
	// closes at the last processed bar's close.
	if barsProcessed > 0 && ledger.Position().IsSome() {
		lastBar := series.Bars[barsProcessed-1]
		fill := e.simulator.ForceClose(ledger.Position().Unwrap(), lastBar.Time, lastBar.Close)

		transition, err := ledger.Close(fill)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvariantViolated, "end-of-data close rejected", err)
		}

		recorder.Record(transition, types.ExitReasonEndOfData)
		ledger.RestateLastEquity()
	}

	result := &types.BacktestResult{
		RunID:                uuid.New().String(),
		Symbol:               series.Symbol,
		Metrics:              metrics.Compute(e.cfg.InitialCapital, e.cfg.RiskFreeRate, ledger.Curve(), recorder.Trades()),
		Trades:               recorder.Trades(),
		EquityCurve:          ledger.Curve(),
		DataWarnings:         warnings,
		BarsProcessed:        barsProcessed,
		Interrupted:          interrupted,
		ExecutionTimeSeconds: e.now().Sub(start).Seconds(),
	}

	return result, nil
}

// apply routes a fill to the ledger and records any close transition.
func (e *Engine) apply(ledger *Ledger, recorder *Recorder, fill types.Fill, signal types.Signal) error {
	if fill.Action == types.FillActionOpen {
		if err := ledger.Open(fill, signal.StopLoss, signal.TakeProfit); err != nil {
			return errors.Wrap(errors.ErrCodeInvariantViolated, "opening fill rejected", err)
		}

		return nil
	}

	transition, err := ledger.Close(fill)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvariantViolated, "closing fill rejected", err)
	}

	recorder.Record(transition, types.ExitReasonSignal)

	return nil
}

// checkProtective tests the position's protective levels against the bar.
// When both levels trigger inside one bar the stop wins: the conservative
// fill assumption. Trigger prices clamp to the bar range before slippage.
func checkProtective(pos types.Position, bar types.Bar) (protectiveExit, bool) {
	if pos.Side == types.SideLong {
		if pos.StopLoss.IsSome() && bar.Low.LessThanOrEqual(pos.StopLoss.Unwrap()) {
			return protectiveExit{
				price:  clamp(pos.StopLoss.Unwrap(), bar.Low, bar.High),
				reason: types.ExitReasonStopLoss,
			}, true
		}

		if pos.TakeProfit.IsSome() && bar.High.GreaterThanOrEqual(pos.TakeProfit.Unwrap()) {
			return protectiveExit{
				price:  clamp(pos.TakeProfit.Unwrap(), bar.Low, bar.High),
				reason: types.ExitReasonTakeProfit,
			}, true
		}

		return protectiveExit{}, false
	}

	if pos.StopLoss.IsSome() && bar.High.GreaterThanOrEqual(pos.StopLoss.Unwrap()) {
		return protectiveExit{
			price:  clamp(pos.StopLoss.Unwrap(), bar.Low, bar.High),
			reason: types.ExitReasonStopLoss,
		}, true
	}

	if pos.TakeProfit.IsSome() && bar.Low.LessThanOrEqual(pos.TakeProfit.Unwrap()) {
		return protectiveExit{
			price:  clamp(pos.TakeProfit.Unwrap(), bar.Low, bar.High),
			reason: types.ExitReasonTakeProfit,
		}, true
	}

	return protectiveExit{}, false
}

func clamp(price, low, high decimal.Decimal) decimal.Decimal {
	if price.LessThan(low) {
		return low
	}

	if price.GreaterThan(high) {
		return high
	}

	return price
}
