package arc

import (
	"github.com/geopolygonize/geopolygonize/raster"
	"github.com/geopolygonize/geopolygonize/region"
)

// vkey is a hashable grid-vertex coordinate, used as a map key across this
// package. It mirrors region's internal vertex type but is exported within
// arc since segment tables and junction sets are built here.
type vkey struct{ Col, Row int }

func key(gp region.GridPoint) vkey { return vkey{gp.Col, gp.Row} }

func lessVKey(a, b vkey) bool {
	if a.Col != b.Col {
		return a.Col < b.Col
	}
	return a.Row < b.Row
}

// segKey canonically identifies an undirected grid-edge, independent of
// which ring or direction contributed it.
type segKey struct{ A, B vkey }

func canonicalSeg(p, q region.GridPoint) segKey {
	a, b := key(p), key(q)
	if lessVKey(b, a) {
		a, b = b, a
	}
	return segKey{a, b}
}

// segEntry records the up to two region labels that touch one undirected
// segment (spec.md §4.3 step 2: interior segments have exactly two
// contributors, exterior segments exactly one).
type segEntry struct {
	labels []raster.Label
}

// segmentTable builds the undirected segment table described in spec.md
// §4.3 steps 1-2 from every ring of every region polygon in the tile.
type segmentTable struct {
	segs   map[segKey]*segEntry
	vertex map[vkey]map[raster.Label]bool
}

func buildSegmentTable(polys []region.Polygon) *segmentTable {
	st := &segmentTable{
		segs:   make(map[segKey]*segEntry),
		vertex: make(map[vkey]map[raster.Label]bool),
	}
	for _, poly := range polys {
		st.addRing(poly.Label, poly.Shell)
		for _, h := range poly.Holes {
			st.addRing(poly.Label, h)
		}
	}
	st.finalizeVertexSets()
	return st
}

func (st *segmentTable) addRing(label raster.Label, ring region.Ring) {
	for i := 0; i+1 < len(ring); i++ {
		p, q := ring[i], ring[i+1]
		k := canonicalSeg(p, q)
		e, ok := st.segs[k]
		if !ok {
			e = &segEntry{}
			st.segs[k] = e
		}
		e.labels = append(e.labels, label)
	}
}

// finalizeVertexSets computes, for every vertex, the set of distinct
// labels (including raster.Outside for segments with only one
// contributor) that touch it — spec.md §4.3 step 3.
func (st *segmentTable) finalizeVertexSets() {
	for k, e := range st.segs {
		labels := e.labels
		if len(labels) == 1 {
			labels = []raster.Label{labels[0], raster.Outside}
		}
		for _, v := range []vkey{k.A, k.B} {
			set, ok := st.vertex[v]
			if !ok {
				set = make(map[raster.Label]bool)
				st.vertex[v] = set
			}
			for _, l := range labels {
				set[l] = true
			}
		}
	}
}

// otherLabel returns the label on the far side of the directed segment
// (p, q) from the perspective of a ring walking it with `self` on its
// right (region.Ring's construction invariant), or raster.Outside if the
// segment has only one contributor.
func (st *segmentTable) otherLabel(p, q region.GridPoint, self raster.Label) (raster.Label, error) {
	e := st.segs[canonicalSeg(p, q)]
	if e == nil {
		return 0, errSegmentNotFound
	}
	if len(e.labels) == 1 {
		return raster.Outside, nil
	}
	if len(e.labels) != 2 {
		return 0, errSegmentArity
	}
	if e.labels[0] == self {
		return e.labels[1], nil
	}
	if e.labels[1] == self {
		return e.labels[0], nil
	}
	return 0, errSegmentLabelMismatch
}

// labelCount returns the number of distinct labels (regions, plus Outside)
// touching a vertex. A point is a junction if this is >= 3, per spec.md
// §4.3 step 3.
func (st *segmentTable) labelCount(v vkey) int {
	return len(st.vertex[v])
}
