// Package transform implements C4, the arc transform driver: it applies
// simplification (Ramer-Douglas-Peucker) and smoothing (Chaikin corner
// cutting) to each decomposed arc independently, pinning endpoints so the
// junction vertices arcs share stay bit-exact across the whole tile
// (spec.md §4.4).
package transform

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"github.com/geopolygonize/geopolygonize/arc"
	"github.com/geopolygonize/geopolygonize/raster"
	"github.com/geopolygonize/geopolygonize/region"
)

// Options configures the transform chain. Tolerance is in the same planar
// units as the arcs' coordinates (already pixel_size * simplification
// window); SmoothingIterations is Chaikin's refinement count.
type Options struct {
	Tolerance           float64
	SmoothingIterations int
}

// Arc is one transformed arc: the same ID, Left/Right and Closed flag as
// its arc.Arc, with Points replaced by the simplified-and-smoothed planar
// path. The first and last points are always bit-identical to the
// originating arc's endpoints.
type Arc struct {
	ID          int
	Points      []geom.Point
	Left, Right raster.Label
	Closed      bool
}

// Apply runs the configured transform chain over every arc in d.
func Apply(d *arc.Decomposition, opts Options) ([]Arc, error) {
	out := make([]Arc, len(d.Arcs))
	for i, a := range d.Arcs {
		pts := toGeomPoints(a.Points)
		before := pts[0]
		after := pts[len(pts)-1]

		simplified := pts
		if opts.Tolerance > 0 {
			if a.Closed {
				simplified = simplifyClosed(pts, opts.Tolerance)
			} else {
				simplified = simplifyOpen(pts, opts.Tolerance)
			}
		}
		smoothed := chaikin(simplified, opts.SmoothingIterations)

		if err := validate(pts, smoothed, before, after); err != nil {
			return nil, fmt.Errorf("transform: arc %d: %w", a.ID, err)
		}

		out[i] = Arc{
			ID:     a.ID,
			Points: smoothed,
			Left:   a.Left,
			Right:  a.Right,
			Closed: a.Closed,
		}
	}
	logrus.WithField("arcs", len(out)).Debug("transform: simplified and smoothed arcs")
	return out, nil
}

func toGeomPoints(gps []region.GridPoint) []geom.Point {
	out := make([]geom.Point, len(gps))
	for i, gp := range gps {
		out[i] = gp.Pt
	}
	return out
}

func validate(orig, transformed []geom.Point, before, after geom.Point) error {
	if len(transformed) < 2 {
		return fmt.Errorf("transform produced degenerate arc with %d points", len(transformed))
	}
	if transformed[0] != before {
		return fmt.Errorf("transform moved the arc's start endpoint")
	}
	if transformed[len(transformed)-1] != after {
		return fmt.Errorf("transform moved the arc's end endpoint")
	}
	for i := 0; i+1 < len(transformed); i++ {
		if transformed[i] == transformed[i+1] {
			return fmt.Errorf("transform produced duplicate consecutive points at index %d", i)
		}
	}
	return nil
}
