// Package tiler implements C1, the raster tiler: it cuts a raster.Grid into
// tiles, runs a per-tile worker function across a fixed pool of goroutines,
// and merges the results back in deterministic (row, col) order (spec.md
// §4.1, §5).
//
// The worker pool mirrors the teacher's own concurrency idiom (run.go's
// Calculations): a fixed number of goroutines, striped across the work
// items by index, synchronized with a sync.WaitGroup rather than a
// worker-pool library or errgroup.
package tiler

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/geopolygonize/geopolygonize/raster"
)

// Work is the per-tile function the pool runs. It returns the tile's
// result value (opaque to the pool) or an error naming that tile.
type Work func(tile *raster.Tile) (interface{}, error)

// TileError reports a tile-local failure, per spec.md §7's "tile-local
// failure" error kind.
type TileError struct {
	Col, Row int
	Err      error
}

func (e *TileError) Error() string {
	return fmt.Sprintf("tile (%d,%d): %v", e.Col, e.Row, e.Err)
}
func (e *TileError) Unwrap() error { return e.Err }
func (e *TileError) Kind() string  { return "tile" }

// MultiTileError aggregates every tile that failed in one run.
type MultiTileError struct {
	Errors []*TileError
}

func (e *MultiTileError) Error() string {
	return fmt.Sprintf("%d of the tiles being processed failed", len(e.Errors))
}

func (e *MultiTileError) Kind() string { return "tile" }

func (e *MultiTileError) Unwrap() []error {
	out := make([]error, len(e.Errors))
	for i, te := range e.Errors {
		out[i] = te
	}
	return out
}

// Options configures the pool.
type Options struct {
	TileSize int
	Workers  int // 0 means runtime.GOMAXPROCS(0)
}

// Result is one tile's output, tagged with its tile-grid coordinate so
// callers can merge deterministically.
type Result struct {
	Col, Row int
	Value    interface{}
}

// Run cuts g into tiles of opts.TileSize and runs work over each one
// concurrently, returning results sorted by (row, col). If any tiles
// failed, it returns a *MultiTileError alongside whatever results did
// succeed.
func Run(g *raster.Grid, opts Options, work Work) ([]Result, error) {
	if opts.TileSize <= 0 {
		return nil, fmt.Errorf("tiler: tile size must be positive, got %d", opts.TileSize)
	}
	cols, rows := raster.NTiles(g, opts.TileSize)
	var tiles []*raster.Tile
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			tiles = append(tiles, raster.NewTile(g, col, row, opts.TileSize))
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(tiles) {
		workers = len(tiles)
	}
	logrus.WithFields(logrus.Fields{
		"tiles": len(tiles), "workers": workers, "tile_size": opts.TileSize,
	}).Info("tiler: starting tiled processing")

	results := make([]Result, len(tiles))
	errs := make([]*TileError, len(tiles))

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := w; i < len(tiles); i += workers {
				t := tiles[i]
				v, err := work(t)
				if err != nil {
					errs[i] = &TileError{Col: t.Col, Row: t.Row, Err: err}
					continue
				}
				results[i] = Result{Col: t.Col, Row: t.Row, Value: v}
			}
		}(w)
	}
	wg.Wait()

	var failed []*TileError
	var ok []Result
	for i, e := range errs {
		if e != nil {
			failed = append(failed, e)
			continue
		}
		ok = append(ok, results[i])
	}
	sort.Slice(ok, func(i, j int) bool {
		if ok[i].Row != ok[j].Row {
			return ok[i].Row < ok[j].Row
		}
		return ok[i].Col < ok[j].Col
	})

	if len(failed) > 0 {
		logrus.WithField("failed_tiles", len(failed)).Warn("tiler: some tiles failed")
		return ok, &MultiTileError{Errors: failed}
	}
	return ok, nil
}
