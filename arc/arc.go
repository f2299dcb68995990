// Package arc implements C3, the arc decomposer: the heart of
// geopolygonize. Given the region polygons traced for one tile, it finds
// the junction vertices where three or more regions meet, or where a
// region touches the tile's own window boundary, walks each ring into the
// maximal boundary runs between junctions, and deduplicates each run
// against the mirror-image run traced by the region on its other side,
// producing one canonical Arc shared by both (spec.md §4.3).
package arc

import (
	"fmt"

	"github.com/ctessum/geom"

	"github.com/geopolygonize/geopolygonize/raster"
	"github.com/geopolygonize/geopolygonize/region"
)

// Arc is one maximal boundary run between two junction vertices (or, for a
// region fully enclosed by exactly one other, the whole ring). Left and
// Right are the labels bordering the arc when walked from Points[0] to
// Points[len-1] in storage order; Right may be raster.Outside.
type Arc struct {
	ID          int
	Points      []region.GridPoint
	Left, Right raster.Label
	Closed      bool // true iff this arc is a whole ring with no junction
}

// Ref points into the arc table from a polygon ring, recording whether the
// ring walks the arc backwards relative to its canonical storage direction.
type Ref struct {
	ID       int
	Reversed bool
}

// PolyRings is the ring-arc index for one input region.Polygon: the ordered
// list of arc references making up its shell, and one such list per hole.
type PolyRings struct {
	Label     raster.Label
	ShellRefs []Ref
	HoleRefs  [][]Ref
}

// Decomposition is the full output of Decompose for one tile: every arc
// referenced by any polygon, plus each polygon's ring-arc index.
type Decomposition struct {
	Arcs  []*Arc
	Polys []PolyRings
}

// builder accumulates arcs across all of a tile's polygons so that an arc
// shared by two regions is only stored once.
type builder struct {
	tile  *raster.Tile
	segs  *segmentTable
	byKey map[string]int // canonical point-sequence key -> arc index
	arcs  []*Arc
}

// Decompose runs the arc decomposition algorithm (spec.md §4.3) over all
// region polygons extracted for one tile.
func Decompose(tile *raster.Tile, polys []region.Polygon) (*Decomposition, error) {
	b := &builder{
		tile:  tile,
		segs:  buildSegmentTable(polys),
		byKey: make(map[string]int),
	}

	out := &Decomposition{Polys: make([]PolyRings, len(polys))}
	for i, poly := range polys {
		pr := PolyRings{Label: poly.Label}
		shellRefs, err := b.decomposeRing(poly.Label, poly.Shell)
		if err != nil {
			return nil, fmt.Errorf("arc: polygon %d (label %v) shell: %w", i, poly.Label, err)
		}
		pr.ShellRefs = shellRefs
		for hi, h := range poly.Holes {
			refs, err := b.decomposeRing(poly.Label, h)
			if err != nil {
				return nil, fmt.Errorf("arc: polygon %d (label %v) hole %d: %w", i, poly.Label, hi, err)
			}
			pr.HoleRefs = append(pr.HoleRefs, refs)
		}
		out.Polys[i] = pr
	}
	out.Arcs = b.arcs
	return out, nil
}

// SeamVertices returns the planar points of every arc endpoint that lies on
// tile's own window boundary, deduplicated. transform.Apply pins an arc's
// first and last points bitwise through simplification and smoothing (see
// transform/transform.go's validate), so these are exactly the points the
// seam reconciler can match against a neighboring tile's own window-boundary
// endpoints without any geometric predicate (spec.md §4.6).
func (d *Decomposition) SeamVertices(tile *raster.Tile) []geom.Point {
	seen := make(map[geom.Point]bool)
	var out []geom.Point
	add := func(gp region.GridPoint) {
		if !tile.OnWindowBoundary(gp.Col, gp.Row) {
			return
		}
		if seen[gp.Pt] {
			return
		}
		seen[gp.Pt] = true
		out = append(out, gp.Pt)
	}
	for _, a := range d.Arcs {
		add(a.Points[0])
		add(a.Points[len(a.Points)-1])
	}
	return out
}

func (b *builder) isJunction(v vkey) bool {
	if b.segs.labelCount(v) >= 3 {
		return true
	}
	return b.tile.OnWindowBoundary(v.Col, v.Row)
}

// decomposeRing walks one ring (shell or hole) of a polygon with the given
// label and returns its ordered arc references.
func (b *builder) decomposeRing(self raster.Label, ring region.Ring) ([]Ref, error) {
	n := len(ring) - 1
	if n < 1 {
		return nil, fmt.Errorf("degenerate ring with %d vertices", n)
	}

	junctionIdx := -1
	for i := 0; i < n; i++ {
		if b.isJunction(key(ring[i])) {
			junctionIdx = i
			break
		}
	}

	if junctionIdx == -1 {
		run := append(append([]region.GridPoint{}, ring[:n]...), ring[0])
		ref, err := b.emitRun(self, run, true)
		if err != nil {
			return nil, err
		}
		return []Ref{ref}, nil
	}

	rotated := make([]region.GridPoint, n+1)
	for i := 0; i <= n; i++ {
		rotated[i] = ring[(junctionIdx+i)%n]
	}

	var refs []Ref
	runStart := 0
	for k := 1; k <= n; k++ {
		if !b.isJunction(key(rotated[k])) {
			continue
		}
		run := rotated[runStart : k+1]
		ref, err := b.emitRun(self, run, false)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
		runStart = k
	}
	return refs, nil
}

// emitRun canonicalizes one maximal run (either a junction-to-junction open
// run, or a whole no-junction ring) and registers or reuses its Arc.
func (b *builder) emitRun(self raster.Label, run []region.GridPoint, closed bool) (Ref, error) {
	other, err := b.segs.otherLabel(run[0], run[1], self)
	if err != nil {
		return Ref{}, err
	}
	for i := 0; i+1 < len(run); i++ {
		o, err := b.segs.otherLabel(run[i], run[i+1], self)
		if err != nil {
			return Ref{}, err
		}
		if o != other {
			return Ref{}, fmt.Errorf("%w: at (%d,%d)", errInconsistentRun, run[i].Col, run[i].Row)
		}
	}

	var canon []region.GridPoint
	var reversed bool
	if closed {
		canon, reversed = canonicalClosed(run)
	} else {
		canon, reversed = canonicalOpen(run)
	}
	k := pointSeqKey(canon)

	if idx, ok := b.byKey[k]; ok {
		return Ref{ID: b.arcs[idx].ID, Reversed: reversed}, nil
	}

	left, right := other, self
	if reversed {
		left, right = self, other
	}
	a := &Arc{
		ID:     len(b.arcs),
		Points: canon,
		Left:   left,
		Right:  right,
		Closed: closed,
	}
	b.byKey[k] = len(b.arcs)
	b.arcs = append(b.arcs, a)
	return Ref{ID: a.ID, Reversed: reversed}, nil
}
