// Package region implements C2, the region extractor: from one raster
// tile, it produces one labeled, possibly-holed polygon per 4-connected
// component of equal-label pixels (spec.md §4.2).
package region

import (
	"fmt"

	"github.com/ctessum/geom"

	"github.com/geopolygonize/geopolygonize/raster"
)

// GridPoint is a ring vertex carrying both its source grid-corner
// coordinate (used by arc decomposition to test forced-junction rules
// against the tile window) and the planar point it maps to via the
// tile's affine transform (used for everything downstream of topology).
type GridPoint struct {
	Col, Row int
	Pt       geom.Point
}

// Ring is a closed, simple sequence of ring vertices (first == last).
// Orientation distinguishes shells (CCW, positive signed area in planar
// space) from holes (CW, negative), per spec.md §3.
type Ring []GridPoint

// Polygon is one connected component: a label, its outer shell, and zero
// or more holes (spec.md §3, "Region polygon").
type Polygon struct {
	Label raster.Label
	Shell Ring
	Holes []Ring
}

// Extract computes the region polygons for a tile, scanning and clipping
// strictly to its own window (tile.Window): a pixel in the tile's halo
// but outside its window is always treated as if it were outside the
// traced component, even when it shares the interior pixel's label. This
// forces a straight cut along the tile's window edge wherever a region
// would otherwise continue into a neighboring tile, so that adjacent
// tiles' polygons meet at an exactly shared boundary line for the seam
// reconciler to re-union (spec.md §4.1, §4.6).
func Extract(tile *raster.Tile) ([]Polygon, error) {
	w := tile.Window
	visited := make(map[vertex]bool, w.Width()*w.Height())

	label := func(c, r int) raster.Label {
		if c < w.X0 || r < w.Y0 || c >= w.X1 || r >= w.Y1 {
			return tile.Source.NoData
		}
		return tile.At(c, r)
	}

	var polys []Polygon
	for r := w.Y0; r < w.Y1; r++ {
		for c := w.X0; c < w.X1; c++ {
			p := vertex{c, r}
			if visited[p] {
				continue
			}
			lbl := label(c, r)
			if lbl == tile.Source.NoData {
				visited[p] = true
				continue
			}
			comp := floodFill(p, visited, func(c, r int) bool { return label(c, r) == lbl })
			poly, err := buildPolygon(lbl, comp, label, tile.Source.Affine)
			if err != nil {
				return nil, fmt.Errorf("region: component at (%d,%d): %v", c, r, err)
			}
			polys = append(polys, poly)
		}
	}
	return polys, nil
}

// floodFill collects the 4-connected component containing start, marking
// each member pixel visited so the caller's outer scan never starts a
// second fill from it. Neighbors that do not match are left unmarked, so
// the outer scan can still start their own components.
func floodFill(start vertex, visited map[vertex]bool, in func(c, r int) bool) []vertex {
	stack := []vertex{start}
	visited[start] = true
	var comp []vertex
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		comp = append(comp, p)
		for _, d := range clockwiseOrder {
			n := p.add(d)
			if visited[n] {
				continue
			}
			if !in(n.Col, n.Row) {
				continue
			}
			visited[n] = true
			stack = append(stack, n)
		}
	}
	return comp
}

// buildPolygon traces the shell and hole rings of one component and maps
// them through the affine transform, fixing orientation per the contract
// in spec.md §4.2 (CCW positive area ⇒ shell).
func buildPolygon(lbl raster.Label, comp []vertex, label func(c, r int) raster.Label, affine raster.Affine) (Polygon, error) {
	in := func(c, r int) bool { return label(c, r) == lbl }
	rawRings := traceRings(comp, in)

	shellIdx := -1
	for i, ring := range rawRings {
		if shoelaceInt(ring) < 0 {
			if shellIdx != -1 {
				return Polygon{}, fmt.Errorf("component traced more than one shell ring; pinch resolution failed")
			}
			shellIdx = i
		}
	}
	if shellIdx == -1 {
		return Polygon{}, fmt.Errorf("component traced no shell ring; pinch resolution failed")
	}

	toRing := func(vs []vertex) Ring {
		r := make(Ring, len(vs))
		for i, v := range vs {
			x, y := affine.Apply(v.Col, v.Row)
			r[i] = GridPoint{Col: v.Col, Row: v.Row, Pt: geom.Point{X: x, Y: y}}
		}
		return r
	}

	shell := toRing(rawRings[shellIdx])
	if signedArea(shell) < 0 {
		reverseRing(shell)
	}

	var holes []Ring
	for i, ring := range rawRings {
		if i == shellIdx {
			continue
		}
		h := toRing(ring)
		if signedArea(h) > 0 {
			reverseRing(h)
		}
		holes = append(holes, h)
	}

	return Polygon{Label: lbl, Shell: shell, Holes: holes}, nil
}

// signedArea is twice the shoelace signed area of a closed ring of real
// points (positive ⇒ CCW).
func signedArea(r Ring) float64 {
	var sum float64
	for i := 0; i+1 < len(r); i++ {
		a, b := r[i].Pt, r[i+1].Pt
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}

func reverseRing(r Ring) {
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
}
