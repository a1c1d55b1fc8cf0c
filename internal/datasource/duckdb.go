package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"
	"github.com/tickerlab/stratbench/internal/logger"
	"github.com/tickerlab/stratbench/internal/types"
	"github.com/tickerlab/stratbench/pkg/errors"
	"go.uber.org/zap"
)

// DuckDBLoader reads CSV and Parquet files through an in-memory DuckDB
// instance. Each call opens its own database, so a single loader is safe
// for concurrent use.
type DuckDBLoader struct {
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBLoader creates a DuckDBLoader.
func NewDuckDBLoader(logger *logger.Logger) *DuckDBLoader {
	return &DuckDBLoader{
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Load implements Loader.
func (l *DuckDBLoader) Load(
	ctx context.Context,
	path, symbol string,
	start, end optional.Option[time.Time],
) (types.BarSeries, error) {
	l.logger.Debug("loading bars",
		zap.String("path", path),
		zap.String("symbol", symbol))

	db, err := l.openView(ctx, path)
	if err != nil {
		return types.BarSeries{}, err
	}
	defer db.Close()

	builder := l.sq.
		Select("time", "open", "high", "low", "close", "volume").
		From("bars").
		OrderBy("time ASC")

	if start.IsSome() {
		builder = builder.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		builder = builder.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return types.BarSeries{}, errors.Wrap(errors.ErrCodeDataQueryFailed, "failed to build query", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return types.BarSeries{}, errors.Wrapf(errors.ErrCodeDataQueryFailed, err, "failed to query %s", path)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var (
			timestamp                      time.Time
			open, high, low, close, volume float64
		)

		if err := rows.Scan(&timestamp, &open, &high, &low, &close, &volume); err != nil {
			return types.BarSeries{}, errors.Wrapf(errors.ErrCodeDataLoadFailed, err, "failed to scan row from %s", path)
		}

		bars = append(bars, types.Bar{
			Time:   timestamp.UTC(),
			Open:   decimalFromFloat(open),
			High:   decimalFromFloat(high),
			Low:    decimalFromFloat(low),
			Close:  decimalFromFloat(close),
			Volume: int64(volume),
		})
	}

	if err := rows.Err(); err != nil {
		return types.BarSeries{}, errors.Wrapf(errors.ErrCodeDataLoadFailed, err, "error iterating rows from %s", path)
	}

	if len(bars) == 0 {
		return types.BarSeries{}, errors.Newf(errors.ErrCodeEmptySeries,
			"no bars for %s in %s within the requested window", symbol, path)
	}

	l.logger.Debug("loaded bars",
		zap.String("symbol", symbol),
		zap.Int("count", len(bars)),
		zap.Time("first", bars[0].Time),
		zap.Time("last", bars[len(bars)-1].Time))

	return types.BarSeries{Symbol: symbol, Bars: bars}, nil
}

// Count implements Loader.
func (l *DuckDBLoader) Count(ctx context.Context, path string) (int, error) {
	db, err := l.openView(ctx, path)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bars").Scan(&count); err != nil {
		return 0, errors.Wrapf(errors.ErrCodeDataQueryFailed, err, "failed to count rows in %s", path)
	}

	return count, nil
}

// openView opens a fresh in-memory database with a bars view over the file.
// The view is raw SQL because squirrel does not model CREATE VIEW; the path
// is quoted as a SQL string literal, not interpolated into an identifier.
func (l *DuckDBLoader) openView(ctx context.Context, path string) (*sql.DB, error) {
	reader, err := readerFor(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataLoadFailed, "failed to open duckdb", err)
	}

	query := fmt.Sprintf(`CREATE VIEW bars AS SELECT * FROM %s('%s');`,
		reader, strings.ReplaceAll(path, "'", "''"))

	if _, err := db.ExecContext(ctx, query); err != nil {
		db.Close()

		return nil, errors.Wrapf(errors.ErrCodeDataLoadFailed, err, "failed to read %s", path)
	}

	return db, nil
}

// readerFor maps the file extension to the DuckDB table function that reads
// it.
func readerFor(path string) (string, error) {
	lower := strings.ToLower(path)

	switch {
	case strings.HasSuffix(lower, ".csv"), strings.HasSuffix(lower, ".csv.gz"):
		return "read_csv_auto", nil
	case strings.HasSuffix(lower, ".parquet"):
		return "read_parquet", nil
	default:
		return "", errors.Newf(errors.ErrCodeDataLoadFailed, "unsupported data file %s: want .csv, .csv.gz or .parquet", path)
	}
}

// decimalFromFloat converts a DOUBLE column value through its shortest
// decimal string so prices like 123.45 arrive exact rather than as binary
// float residue.
func decimalFromFloat(f float64) decimal.Decimal {
	d, err := decimal.NewFromString(strconv.FormatFloat(f, 'f', -1, 64))
	if err != nil {
		return decimal.NewFromFloat(f)
	}

	return d
}
