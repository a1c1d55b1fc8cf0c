package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/tickerlab/stratbench/internal/backtest"
	"github.com/tickerlab/stratbench/internal/config"
	"github.com/tickerlab/stratbench/internal/datasource"
	"github.com/tickerlab/stratbench/internal/logger"
	"github.com/tickerlab/stratbench/internal/report"
	"github.com/tickerlab/stratbench/internal/strategy"
	"github.com/tickerlab/stratbench/internal/types"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// runAction is the core logic executed by the run command. It loads the
// configuration, runs one backtest per configured symbol, renders each
// report to stdout, and optionally writes result artifacts to disk.
func runAction(ctx context.Context, cmd *cli.Command) error {
	// Retrieve flag values from the context
	configPath := cmd.String("config")
	dataPath := cmd.String("data")
	outputDir := cmd.String("output")
	quiet := cmd.Bool("quiet")

	zapLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry := strategy.NewDefaultRegistry()

	var loader datasource.Loader = datasource.NewDuckDBLoader(zapLogger)
	if cfg.CacheEnabled {
		loader = datasource.NewCachedLoader(loader)
	}

	// Ctrl-C cancels the run context; the engine settles any open position
	// and returns a partial result which is still reported below.
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, symbol := range cfg.Symbols {
		result, err := runSymbol(runCtx, zapLogger, cfg, registry, loader, symbol, dataPath, quiet)
		if err != nil {
			return err
		}

		if err := report.Render(os.Stdout, result); err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}

		if outputDir != "" {
			if err := writeArtifacts(outputDir, symbol, cfg.Strategy.Name, result); err != nil {
				return err
			}
		}

		if result.Interrupted {
			zapLogger.Warn("run interrupted, skipping remaining symbols",
				zap.String("symbol", symbol),
			)
			break
		}
	}

	return nil
}

// runSymbol loads the bar data for a single symbol and runs the configured
// strategy over it.
func runSymbol(ctx context.Context, zapLogger *logger.Logger, cfg config.BacktestConfig, registry *strategy.Registry, loader datasource.Loader, symbol string, dataPath string, quiet bool) (*types.BacktestResult, error) {
	strat, err := registry.Get(cfg.Strategy.Name)
	if err != nil {
		return nil, err
	}

	if err := strat.Init(cfg.Strategy.Params); err != nil {
		return nil, fmt.Errorf("failed to initialize strategy %q: %w", cfg.Strategy.Name, err)
	}

	series, err := loader.Load(ctx, dataFileFor(dataPath, symbol), symbol, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return nil, err
	}

	opts := []backtest.Option{}
	if !quiet {
		bar := progressbar.Default(int64(series.Len()))
		bar.Describe(fmt.Sprintf("Backtesting %s with %s", symbol, cfg.Strategy.Name))
		opts = append(opts, backtest.WithOnProgress(func(current, total int) {
			bar.Add(1)
		}))
	}

	engine, err := backtest.New(cfg, strat, opts...)
	if err != nil {
		return nil, err
	}

	result, err := engine.Run(ctx, series)
	if err != nil {
		return nil, err
	}

	for _, warning := range result.DataWarnings {
		zapLogger.Warn("data quality warning",
			zap.String("symbol", symbol),
			zap.String("warning", warning),
		)
	}

	return result, nil
}

// dataFileFor resolves the data path for a symbol. A %s placeholder in the
// flag value expands to the symbol so one flag can cover multi-symbol runs.
func dataFileFor(pattern, symbol string) string {
	if strings.Contains(pattern, "%s") {
		return fmt.Sprintf(pattern, symbol)
	}

	return pattern
}

// writeArtifacts writes summary.yaml and trades.csv for one run into
// outputDir/<symbol>_<strategy>/.
func writeArtifacts(outputDir string, symbol string, strategyName string, result *types.BacktestResult) error {
	runDir := filepath.Join(outputDir, fmt.Sprintf("%s_%s", symbol, strategyName))
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", runDir, err)
	}

	if err := report.WriteSummaryYAML(filepath.Join(runDir, "summary.yaml"), result); err != nil {
		return err
	}

	return report.WriteTradesCSV(filepath.Join(runDir, "trades.csv"), result.Trades)
}

// schemaAction prints the JSON schema for the backtest configuration file.
func schemaAction(ctx context.Context, cmd *cli.Command) error {
	cfg := config.DefaultConfig()

	schema, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	fmt.Println(schema)

	return nil
}

func main() {
	// Define the CLI application
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run trading strategy backtests over historical bar data",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run the configured strategy over a bar data file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the backtest YAML configuration",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "Bar data file (.csv, .csv.gz or .parquet); a %s placeholder expands to the symbol",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Aliases:  []string{"o"},
						Usage:    "Directory to write summary.yaml and trades.csv artifacts into",
						Required: false,
					},
					&cli.BoolFlag{
						Name:     "quiet",
						Aliases:  []string{"q"},
						Usage:    "Suppress the progress bar",
						Required: false,
					},
				},
				Action: runAction,
			},
			{
				Name:   "schema",
				Usage:  "Print the JSON schema for the configuration file",
				Action: schemaAction,
			},
		},
	}

	// Run the CLI application
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
