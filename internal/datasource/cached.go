package datasource

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/moznion/go-optional"
	"github.com/tickerlab/stratbench/internal/types"
)

// CachedLoader wraps a Loader and memoizes loads so repeated runs over the
// same file and window (parameter sweeps, the TUI re-reading results) skip
// the file read. Errors are cached alongside data: a broken file stays
// broken for the lifetime of the cache.
type CachedLoader struct {
	underlying  Loader
	mu          sync.RWMutex
	seriesCache map[string]types.BarSeries
	errCache    map[string]error
}

// NewCachedLoader creates a CachedLoader wrapping the given Loader.
func NewCachedLoader(underlying Loader) *CachedLoader {
	return &CachedLoader{
		underlying:  underlying,
		seriesCache: make(map[string]types.BarSeries),
		errCache:    make(map[string]error),
	}
}

// Load implements Loader with memoization.
func (c *CachedLoader) Load(
	ctx context.Context,
	path, symbol string,
	start, end optional.Option[time.Time],
) (types.BarSeries, error) {
	key := loadKey(path, symbol, start, end)

	c.mu.RLock()
	if series, ok := c.seriesCache[key]; ok {
		err := c.errCache[key]
		c.mu.RUnlock()

		return series, err
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Another goroutine may have filled the entry between the locks.
	if series, ok := c.seriesCache[key]; ok {
		return series, c.errCache[key]
	}

	series, err := c.underlying.Load(ctx, path, symbol, start, end)
	c.seriesCache[key] = series
	c.errCache[key] = err

	return series, err
}

// Count implements Loader. Counts are cheap and uncached.
func (c *CachedLoader) Count(ctx context.Context, path string) (int, error) {
	return c.underlying.Count(ctx, path)
}

func loadKey(path, symbol string, start, end optional.Option[time.Time]) string {
	startKey, endKey := "none", "none"

	if start.IsSome() {
		startKey = fmt.Sprintf("%d", start.Unwrap().UnixNano())
	}

	if end.IsSome() {
		endKey = fmt.Sprintf("%d", end.Unwrap().UnixNano())
	}

	return fmt.Sprintf("%s|%s|%s|%s", path, symbol, startKey, endKey)
}
