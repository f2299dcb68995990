// Package geopolygonize converts a categorical label raster into a
// gap-free, simplified-and-smoothed vector polygon layer. It orchestrates
// the shared-boundary topology engine — tiler, region extractor, arc
// decomposer, transform driver, polygon reassembler and seam reconciler —
// over a raster.Grid and returns one set of polygons per label.
package geopolygonize

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"github.com/geopolygonize/geopolygonize/arc"
	"github.com/geopolygonize/geopolygonize/assemble"
	"github.com/geopolygonize/geopolygonize/raster"
	"github.com/geopolygonize/geopolygonize/region"
	"github.com/geopolygonize/geopolygonize/seam"
	"github.com/geopolygonize/geopolygonize/tiler"
	"github.com/geopolygonize/geopolygonize/transform"
)

// Options configures one polygonization run (spec.md §6).
type Options struct {
	TileSize                  int     // pixels; default 200
	Workers                   int     // 0 means runtime.GOMAXPROCS(0)
	MetersPerPixel            float64 // drives the simplification tolerance default
	SimplificationPixelWindow float64 // tolerance = window * MetersPerPixel; default 2
	SmoothingIterations       int     // Chaikin iterations; default 5
	StrictAssembly            bool    // reject (rather than repair) bad ring orientation
}

// DefaultOptions returns the spec.md §6 defaults for everything but the
// raster-dependent meters_per_pixel, which callers must supply.
func DefaultOptions(metersPerPixel float64) Options {
	return Options{
		TileSize:                  200,
		Workers:                   0,
		MetersPerPixel:            metersPerPixel,
		SimplificationPixelWindow: 2,
		SmoothingIterations:       5,
	}
}

func (o Options) tolerance() float64 {
	if o.SimplificationPixelWindow <= 0 || o.MetersPerPixel <= 0 {
		return 0
	}
	return o.SimplificationPixelWindow * o.MetersPerPixel
}

// Warning is a non-fatal condition surfaced alongside a successful Result
// (spec.md §7, "Reassembly warning").
type Warning struct {
	Col, Row int
	Message  string
}

// Result is the finished output of one polygonization run.
type Result struct {
	Polygons []assemble.Polygon
	Warnings []Warning
}

// ConfigError reports a bad option value (spec.md §7, "Configuration").
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("geopolygonize: config: %s", e.Msg) }
func (e *ConfigError) Kind() string  { return "config" }

// InputShapeError reports a malformed input raster (spec.md §7, "Input-shape").
type InputShapeError struct {
	Msg string
}

func (e *InputShapeError) Error() string { return fmt.Sprintf("geopolygonize: input: %s", e.Msg) }
func (e *InputShapeError) Kind() string  { return "input" }

// SeamError reports tiles disagreeing on their shared seam vertex set,
// which should be impossible given forced window-boundary junctions and
// indicates an implementation bug (spec.md §7, "Seam mismatch").
type SeamError struct {
	Err error
}

func (e *SeamError) Error() string { return fmt.Sprintf("geopolygonize: seam: %v", e.Err) }
func (e *SeamError) Unwrap() error { return e.Err }
func (e *SeamError) Kind() string  { return "seam" }

// tileOutput is what each worker hands back through tiler.Run.
type tileOutput struct {
	polygons     []assemble.Polygon
	warnings     []assemble.Warning
	seamVertices []geom.Point
}

// Polygonize runs the full pipeline over g and returns the finished,
// seam-reconciled polygon set plus any non-fatal reassembly warnings.
func Polygonize(g *raster.Grid, opts Options) (*Result, error) {
	if opts.TileSize <= 0 {
		return nil, &ConfigError{Msg: fmt.Sprintf("tile_size must be positive, got %d", opts.TileSize)}
	}
	if opts.Workers < 0 {
		return nil, &ConfigError{Msg: fmt.Sprintf("workers must be non-negative, got %d", opts.Workers)}
	}
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return nil, &InputShapeError{Msg: "raster has no data"}
	}
	if g.CRS == "" {
		return nil, &InputShapeError{Msg: "raster has no CRS"}
	}

	workers := opts.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logrus.WithFields(logrus.Fields{
		"tile_size": opts.TileSize, "workers": workers,
	}).Info("geopolygonize: starting run")

	tileOpts := transform.Options{
		Tolerance:           opts.tolerance(),
		SmoothingIterations: opts.SmoothingIterations,
	}
	assembleOpts := assemble.Options{Strict: opts.StrictAssembly}

	results, err := tiler.Run(g, tiler.Options{TileSize: opts.TileSize, Workers: opts.Workers}, func(t *raster.Tile) (interface{}, error) {
		polys, err := region.Extract(t)
		if err != nil {
			return nil, fmt.Errorf("region extraction: %w", err)
		}
		decomp, err := arc.Decompose(t, polys)
		if err != nil {
			return nil, fmt.Errorf("arc decomposition: %w", err)
		}
		transformed, err := transform.Apply(decomp, tileOpts)
		if err != nil {
			return nil, fmt.Errorf("arc transform: %w", err)
		}
		assembled, warnings, err := assemble.Assemble(decomp, transformed, assembleOpts)
		if err != nil {
			return nil, fmt.Errorf("reassembly: %w", err)
		}
		return tileOutput{
			polygons:     assembled,
			warnings:     warnings,
			seamVertices: decomp.SeamVertices(t),
		}, nil
	})
	if err != nil {
		var mte *tiler.MultiTileError
		if errors.As(err, &mte) {
			return nil, mte
		}
		return nil, err
	}

	seamInputs := make([]seam.TileResult, len(results))
	var warnings []Warning
	for i, r := range results {
		out := r.Value.(tileOutput)
		seamInputs[i] = seam.TileResult{Col: r.Col, Row: r.Row, Polygons: out.polygons, SeamVertices: out.seamVertices}
		for _, w := range out.warnings {
			warnings = append(warnings, Warning{Col: r.Col, Row: r.Row, Message: w.Message})
		}
	}

	merged, err := seam.Reconcile(seamInputs)
	if err != nil {
		return nil, &SeamError{Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"polygons": len(merged), "warnings": len(warnings),
	}).Info("geopolygonize: run complete")
	return &Result{Polygons: merged, Warnings: warnings}, nil
}
