package seam

import (
	"testing"

	"github.com/ctessum/geom"

	"github.com/geopolygonize/geopolygonize/assemble"
	"github.com/geopolygonize/geopolygonize/raster"
)

// ring builds a single CCW ring (closed, first == last) from the given
// coordinate pairs.
func ring(coords ...float64) []geom.Point {
	r := make([]geom.Point, 0, len(coords)/2+1)
	for i := 0; i+1 < len(coords); i += 2 {
		r = append(r, geom.Point{X: coords[i], Y: coords[i+1]})
	}
	r = append(r, r[0])
	return r
}

func TestReconcileMergesAcrossSeam(t *testing.T) {
	// Tile (0,0)'s window right edge sits at x=4; tile (1,0)'s window left
	// edge is the same line. Deliberately non-symmetric shapes (an L on the
	// left, a plain rectangle on the right) so the merge isn't an artifact
	// of mirrored geometry: left fragment has a notch cut out of its corner
	// at x in [2,4], y in [3,6], so the two fragments only meet along the
	// part of the shared seam edge from (4,0) to (4,3), and the only seam
	// vertex both of them carry is (4,0).
	left := assemble.Polygon{Label: 1, Geom: geom.Polygon{ring(
		0, 0,
		4, 0,
		4, 3,
		2, 3,
		2, 6,
		0, 6,
	)}}
	right := assemble.Polygon{Label: 1, Geom: geom.Polygon{ring(
		4, 0,
		8, 0,
		8, 6,
		4, 6,
	)}}

	results := []TileResult{
		{Col: 0, Row: 0, Polygons: []assemble.Polygon{left}, SeamVertices: []geom.Point{{X: 4, Y: 0}, {X: 4, Y: 6}}},
		{Col: 1, Row: 0, Polygons: []assemble.Polygon{right}, SeamVertices: []geom.Point{{X: 4, Y: 0}, {X: 4, Y: 6}}},
	}

	out, err := Reconcile(results)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("expected fragments sharing a seam vertex to merge into 1 polygon, got %d", len(out))
	}
	if out[0].Label != 1 {
		t.Fatalf("expected merged polygon to keep label 1, got %v", out[0].Label)
	}
}

func TestReconcileDoesNotMergeDisjointOverlappingBoundingBoxes(t *testing.T) {
	// Two same-label blobs in Chebyshev-adjacent tiles whose bounding boxes
	// overlap (a is an L spanning [0,10]x[0,10]; b is a square sitting in
	// the L's notch, inside a's box) but that share no seam vertex: a
	// bounding-box-overlap heuristic would wrongly union these.
	a := assemble.Polygon{Label: 7, Geom: geom.Polygon{ring(
		0, 0,
		10, 0,
		10, 2,
		2, 2,
		2, 10,
		0, 10,
	)}}
	b := assemble.Polygon{Label: 7, Geom: geom.Polygon{ring(
		4, 4,
		10, 4,
		10, 10,
		4, 10,
	)}}

	results := []TileResult{
		{Col: 0, Row: 0, Polygons: []assemble.Polygon{a}, SeamVertices: []geom.Point{{X: 10, Y: 0}, {X: 10, Y: 2}}},
		{Col: 0, Row: 1, Polygons: []assemble.Polygon{b}, SeamVertices: []geom.Point{{X: 10, Y: 4}, {X: 10, Y: 10}}},
	}

	out, err := Reconcile(results)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("expected disjoint blobs with no shared seam vertex to stay separate, got %d polygon(s)", len(out))
	}
}

func TestReconcileOutputOrderIsDeterministic(t *testing.T) {
	mk := func(label raster.Label, coords ...float64) assemble.Polygon {
		return assemble.Polygon{Label: label, Geom: geom.Polygon{ring(coords...)}}
	}
	// Three independent groups (no shared seam vertices across any of
	// them), so map iteration over the union-find groups would otherwise
	// be free to emit them in any order.
	results := []TileResult{
		{Col: 0, Row: 0, Polygons: []assemble.Polygon{
			mk(1, 0, 0, 1, 0, 1, 1, 0, 1),
			mk(2, 2, 2, 3, 2, 3, 3, 2, 3),
			mk(3, 4, 4, 5, 4, 5, 5, 4, 5),
		}},
	}

	var first []raster.Label
	for i := 0; i < 20; i++ {
		out, err := Reconcile(results)
		if err != nil {
			t.Fatal(err)
		}
		labels := make([]raster.Label, len(out))
		for j, p := range out {
			labels[j] = p.Label
		}
		if i == 0 {
			first = labels
			continue
		}
		if len(labels) != len(first) {
			t.Fatalf("run %d: got %d polygons, first run had %d", i, len(labels), len(first))
		}
		for j := range labels {
			if labels[j] != first[j] {
				t.Fatalf("run %d: output order %v diverged from first run's %v", i, labels, first)
			}
		}
	}
}
