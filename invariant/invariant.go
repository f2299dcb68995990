// Package invariant checks the topological coherence guarantee
// (spec.md §1, §9): the finished polygon set must cover exactly the
// non-nodata area of the source raster, with no gaps and no overlaps. It
// is used by tests; the CLI does not call it.
package invariant

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/geopolygonize/geopolygonize/assemble"
	"github.com/geopolygonize/geopolygonize/raster"
)

// AreaSum checks that the total area of every assembled polygon (shells
// minus holes, via geom.Polygon.Area's winding-aware accounting) equals
// the raster's non-nodata pixel area to within tolerance. A shortfall
// indicates a gap; an excess indicates an overlap.
func AreaSum(g *raster.Grid, polys []assemble.Polygon, tolerance float64) error {
	areas := make([]float64, len(polys))
	for i, p := range polys {
		areas[i] = p.Geom.Area()
	}
	total := floats.Sum(areas)

	pixelArea := g.Affine.PixelSize() * g.Affine.PixelSize()
	nPixels := 0
	for _, lbl := range g.Labels {
		if lbl != g.NoData {
			nPixels++
		}
	}
	want := float64(nPixels) * pixelArea

	diff := total - want
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		return fmt.Errorf("invariant: polygon area %.6f differs from raster area %.6f by %.6f, exceeding tolerance %.6f (gap or overlap)", total, want, diff, tolerance)
	}
	return nil
}

// NoOverlaps checks that no two distinct polygons in the set share
// positive area, using pairwise Intersection — O(n^2), intended for
// tests on small fixtures rather than production-scale outputs.
func NoOverlaps(polys []assemble.Polygon) error {
	for i := 0; i < len(polys); i++ {
		for j := i + 1; j < len(polys); j++ {
			if !boundsOverlap(polys[i], polys[j]) {
				continue
			}
			inter := polys[i].Geom.Intersection(polys[j].Geom)
			if inter.Area() > 0 {
				return fmt.Errorf("invariant: polygons %d (label %v) and %d (label %v) overlap with area %.6f",
					i, polys[i].Label, j, polys[j].Label, inter.Area())
			}
		}
	}
	return nil
}

func boundsOverlap(a, b assemble.Polygon) bool {
	ba, bb := a.Geom.Bounds(), b.Geom.Bounds()
	return ba.Min.X <= bb.Max.X && bb.Min.X <= ba.Max.X &&
		ba.Min.Y <= bb.Max.Y && bb.Min.Y <= ba.Max.Y
}
