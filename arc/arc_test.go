package arc

import (
	"testing"

	"github.com/geopolygonize/geopolygonize/raster"
	"github.com/geopolygonize/geopolygonize/region"
)

func unitAffine() raster.Affine {
	return raster.Affine{0, 1, 0, 0, 0, 1}
}

func findArc(d *Decomposition, id int) *Arc {
	for _, a := range d.Arcs {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func hasVertex(a *Arc, col, row int) bool {
	for _, p := range a.Points {
		if p.Col == col && p.Row == row {
			return true
		}
	}
	return false
}

func refIDs(refs []Ref) map[int]bool {
	out := make(map[int]bool)
	for _, r := range refs {
		out[r.ID] = true
	}
	return out
}

// TestDecomposeConcentric exercises both arc shapes in one scene: a hole
// ring with no junction at all (spec.md §9's fully-enclosed region, emitted
// as one closed arc) and an outer shell whose four corners are forced
// junctions by the tile window boundary.
func TestDecomposeConcentric(t *testing.T) {
	g := raster.NewGrid(3, 3, unitAffine(), -1, "")
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			g.Set(c, r, 1)
		}
	}
	g.Set(1, 1, 2)
	tile := raster.SingleTile(g)

	polys, err := region.Extract(tile)
	if err != nil {
		t.Fatal(err)
	}
	d, err := Decompose(tile, polys)
	if err != nil {
		t.Fatal(err)
	}

	var outer, inner *PolyRings
	for i := range d.Polys {
		if d.Polys[i].Label == 1 {
			outer = &d.Polys[i]
		} else {
			inner = &d.Polys[i]
		}
	}
	if outer == nil || inner == nil {
		t.Fatalf("expected polygons for labels 1 and 2")
	}

	// Every vertex along the 3x3 grid's own perimeter sits on the tile's
	// window boundary, so each of its 12 unit edges becomes its own
	// forced-junction arc (spec.md §4.6).
	if len(outer.ShellRefs) != 12 {
		t.Fatalf("expected outer shell to split into 12 forced-junction arcs, got %d", len(outer.ShellRefs))
	}
	for _, ref := range outer.ShellRefs {
		a := findArc(d, ref.ID)
		if a.Closed {
			t.Errorf("outer shell arc %d should not be closed", a.ID)
		}
		if a.Left != raster.Outside && a.Right != raster.Outside {
			t.Errorf("outer shell arc %d should border Outside, got left=%v right=%v", a.ID, a.Left, a.Right)
		}
	}

	if len(outer.HoleRefs) != 1 || len(outer.HoleRefs[0]) != 1 {
		t.Fatalf("expected outer polygon's hole to be exactly 1 closed arc, got %#v", outer.HoleRefs)
	}
	holeArc := findArc(d, outer.HoleRefs[0][0].ID)
	if !holeArc.Closed {
		t.Errorf("hole boundary with no junction should be a closed arc")
	}
	if !((holeArc.Left == 1 && holeArc.Right == 2) || (holeArc.Left == 2 && holeArc.Right == 1)) {
		t.Errorf("hole arc should border labels 1 and 2, got left=%v right=%v", holeArc.Left, holeArc.Right)
	}

	if len(inner.ShellRefs) != 1 {
		t.Fatalf("expected inner shell to be exactly 1 closed arc, got %d", len(inner.ShellRefs))
	}
	if inner.ShellRefs[0].ID != holeArc.ID {
		t.Errorf("inner shell and outer hole should share one canonical arc")
	}
}

// TestDecomposeThreeLabelJunction embeds the spec.md §8 "three regions
// meet at one grid vertex" scenario inside a background margin, so the
// junction under test is a genuine >=3-label meeting point rather than a
// window-boundary-forced one.
func TestDecomposeThreeLabelJunction(t *testing.T) {
	g := raster.NewGrid(4, 4, unitAffine(), -1, "")
	g.Set(1, 1, 1)
	g.Set(2, 1, 2)
	g.Set(1, 2, 3)
	g.Set(2, 2, 3)
	tile := raster.SingleTile(g)

	polys, err := region.Extract(tile)
	if err != nil {
		t.Fatal(err)
	}
	d, err := Decompose(tile, polys)
	if err != nil {
		t.Fatal(err)
	}

	var p1, p2, p3 *PolyRings
	for i := range d.Polys {
		switch d.Polys[i].Label {
		case 1:
			p1 = &d.Polys[i]
		case 2:
			p2 = &d.Polys[i]
		case 3:
			p3 = &d.Polys[i]
		}
	}
	if p1 == nil || p2 == nil || p3 == nil {
		t.Fatalf("expected polygons for labels 1, 2 and 3")
	}

	for _, pr := range []*PolyRings{p1, p2, p3} {
		found := false
		for _, ref := range pr.ShellRefs {
			if hasVertex(findArc(d, ref.ID), 2, 2) {
				found = true
			}
		}
		if !found {
			t.Errorf("label %v polygon has no arc touching the junction vertex (2,2)", pr.Label)
		}
	}

	shared := refIDs(p1.ShellRefs)
	sharedWithP2 := false
	for id := range refIDs(p2.ShellRefs) {
		if shared[id] {
			sharedWithP2 = true
			a := findArc(d, id)
			if !hasVertex(a, 2, 1) || !hasVertex(a, 2, 2) {
				t.Errorf("shared arc between labels 1 and 2 should run (2,1)-(2,2), got %v", a.Points)
			}
			if a.Closed {
				t.Errorf("shared arc between labels 1 and 2 should not be closed")
			}
		}
	}
	if !sharedWithP2 {
		t.Fatalf("expected labels 1 and 2 to share one canonical arc")
	}
}
