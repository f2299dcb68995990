package assemble

import (
	"testing"

	gogeom "github.com/ctessum/geom"

	"github.com/geopolygonize/geopolygonize/arc"
	"github.com/geopolygonize/geopolygonize/raster"
	"github.com/geopolygonize/geopolygonize/region"
	"github.com/geopolygonize/geopolygonize/transform"
)

func gp(c, r int) region.GridPoint {
	return region.GridPoint{Col: c, Row: r, Pt: gogeom.Point{X: float64(c), Y: float64(r)}}
}

func TestAssembleSingleSquare(t *testing.T) {
	decomp := &arc.Decomposition{
		Arcs: []*arc.Arc{
			{ID: 0, Points: []region.GridPoint{gp(0, 0), gp(2, 0)}, Left: raster.Outside, Right: 1},
			{ID: 1, Points: []region.GridPoint{gp(2, 0), gp(2, 2)}, Left: raster.Outside, Right: 1},
			{ID: 2, Points: []region.GridPoint{gp(2, 2), gp(0, 2)}, Left: raster.Outside, Right: 1},
			{ID: 3, Points: []region.GridPoint{gp(0, 2), gp(0, 0)}, Left: raster.Outside, Right: 1},
		},
		Polys: []arc.PolyRings{
			{
				Label: 1,
				ShellRefs: []arc.Ref{
					{ID: 0}, {ID: 1}, {ID: 2}, {ID: 3},
				},
			},
		},
	}
	arcs := make([]transform.Arc, len(decomp.Arcs))
	for i, a := range decomp.Arcs {
		pts := make([]gogeom.Point, len(a.Points))
		for j, p := range a.Points {
			pts[j] = p.Pt
		}
		arcs[i] = transform.Arc{ID: a.ID, Points: pts, Left: a.Left, Right: a.Right}
	}

	polys, warnings, err := Assemble(decomp, arcs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(polys) != 1 {
		t.Fatalf("expected 1 polygon, got %d", len(polys))
	}
	p := polys[0]
	if len(p.Geom) != 1 {
		t.Fatalf("expected shell only, no holes, got %d rings", len(p.Geom))
	}
	shell := p.Geom[0]
	if shell[0] != shell[len(shell)-1] {
		t.Errorf("shell must be closed")
	}
	if signedArea(shell) <= 0 {
		t.Errorf("shell must be CCW")
	}
}

func TestAssembleDemotesOrphanHole(t *testing.T) {
	// A hole ring that lies entirely outside its declared shell (as if a
	// pinch had displaced it) should be demoted to a standalone polygon
	// rather than silently kept as an invalid hole.
	decomp := &arc.Decomposition{
		Arcs: []*arc.Arc{
			{ID: 0, Points: []region.GridPoint{gp(0, 0), gp(4, 0)}, Left: raster.Outside, Right: 1},
			{ID: 1, Points: []region.GridPoint{gp(4, 0), gp(4, 4)}, Left: raster.Outside, Right: 1},
			{ID: 2, Points: []region.GridPoint{gp(4, 4), gp(0, 4)}, Left: raster.Outside, Right: 1},
			{ID: 3, Points: []region.GridPoint{gp(0, 4), gp(0, 0)}, Left: raster.Outside, Right: 1},
			{ID: 4, Closed: true, Points: []region.GridPoint{gp(10, 10), gp(11, 10), gp(11, 11), gp(10, 11), gp(10, 10)}, Left: 2, Right: 1},
		},
		Polys: []arc.PolyRings{
			{
				Label:     1,
				ShellRefs: []arc.Ref{{ID: 0}, {ID: 1}, {ID: 2}, {ID: 3}},
				HoleRefs:  [][]arc.Ref{{{ID: 4, Reversed: true}}},
			},
		},
	}
	arcs := make([]transform.Arc, len(decomp.Arcs))
	for i, a := range decomp.Arcs {
		pts := make([]gogeom.Point, len(a.Points))
		for j, p := range a.Points {
			pts[j] = p.Pt
		}
		arcs[i] = transform.Arc{ID: a.ID, Points: pts, Left: a.Left, Right: a.Right, Closed: a.Closed}
	}

	polys, warnings, err := Assemble(decomp, arcs, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d: %v", len(warnings), warnings)
	}
	if len(polys) != 2 {
		t.Fatalf("expected the orphan hole demoted into its own polygon, got %d polygons", len(polys))
	}
	for _, p := range polys {
		if len(p.Geom) != 1 {
			t.Errorf("expected no polygon to retain the orphan as a hole, got %d rings", len(p.Geom))
		}
	}
}
