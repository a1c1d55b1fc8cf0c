// Package datasource materializes bar series from local market data files.
// Loading happens once per run before the engine starts; the engine itself
// never touches a Loader.
package datasource

import (
	"context"
	"time"

	"github.com/moznion/go-optional"
	"github.com/tickerlab/stratbench/internal/types"
)

// Loader reads the bars for one symbol from a data file. Implementations
// must return bars in ascending time order; the quality validator rejects
// anything else before simulation.
type Loader interface {
	// Load reads the series for symbol from the file at path, bounded to
	// [start, end] when the bounds are present.
	Load(ctx context.Context, path, symbol string, start, end optional.Option[time.Time]) (types.BarSeries, error)
	// Count returns the total number of rows in the file at path.
	Count(ctx context.Context, path string) (int, error)
}
