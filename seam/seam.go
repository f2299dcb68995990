// Package seam implements C6, the seam reconciler: it merges same-label
// polygons that straddle the boundary between two tiles. Because the arc
// decomposer forces a junction at every tile-window-boundary vertex
// (spec.md §4.6) and transform.Apply pins arc endpoints bitwise through
// simplification and smoothing, neighboring tiles always agree, point for
// point, on the vertices along their shared seam. Reconciliation groups
// same-label polygon fragments by the seam vertex they share and unions
// each group — no geometric predicate needed, since the match is exact
// (spec.md §4.6/§9).
package seam

import (
	"fmt"
	"sort"

	"github.com/ctessum/geom"
	"github.com/sirupsen/logrus"

	"github.com/geopolygonize/geopolygonize/assemble"
	"github.com/geopolygonize/geopolygonize/raster"
)

// TileResult is one tile's finished assembly, tagged with its tile-grid
// coordinate so the reconciler only considers pairs from adjacent tiles,
// plus the planar points of every arc endpoint this tile traced on its own
// window boundary (arc.Decomposition.SeamVertices).
type TileResult struct {
	Col, Row     int
	Polygons     []assemble.Polygon
	SeamVertices []geom.Point
}

// adjacent reports whether two tile coordinates share an edge or corner —
// the only tiles whose windows could possibly have produced a shared arc.
func adjacent(a, b TileResult) bool {
	dc := a.Col - b.Col
	dr := a.Row - b.Row
	if dc < 0 {
		dc = -dc
	}
	if dr < 0 {
		dr = -dr
	}
	return dc <= 1 && dr <= 1 && (dc != 0 || dr != 0)
}

type entry struct {
	label      raster.Label
	geom       geom.Polygon
	tile       int                 // index into the input results slice
	seamPoints map[geom.Point]bool // this entry's own vertices that also lie on its tile's seam
}

// Reconcile merges same-label polygons across every pair of adjacent tiles
// that share a seam vertex, returning the final, seam-free polygon set.
func Reconcile(results []TileResult) ([]assemble.Polygon, error) {
	seamSets := make([]map[geom.Point]bool, len(results))
	for ti, r := range results {
		s := make(map[geom.Point]bool, len(r.SeamVertices))
		for _, p := range r.SeamVertices {
			s[p] = true
		}
		seamSets[ti] = s
	}

	var entries []entry
	for ti, r := range results {
		for _, p := range r.Polygons {
			entries = append(entries, entry{
				label:      p.Label,
				geom:       p.Geom,
				tile:       ti,
				seamPoints: entrySeamPoints(p.Geom, seamSets[ti]),
			})
		}
	}

	parent := make([]int, len(entries))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for i := range entries {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].label != entries[j].label {
				continue
			}
			if !adjacent(results[entries[i].tile], results[entries[j].tile]) {
				continue
			}
			if !sharesSeamVertex(entries[i].seamPoints, entries[j].seamPoints) {
				continue
			}
			union(i, j)
		}
	}

	groups := make(map[int][]int)
	for i := range entries {
		r := find(i)
		groups[r] = append(groups[r], i)
	}

	roots := make([]int, 0, len(groups))
	for r := range groups {
		roots = append(roots, r)
	}
	// Entries are appended to each group in ascending i order (the loop
	// above runs i from 0..len(entries)), so a group's first member is its
	// smallest index; sorting roots by that index gives a deterministic,
	// input-order-derived output order independent of map iteration.
	sort.Slice(roots, func(a, b int) bool { return groups[roots[a]][0] < groups[roots[b]][0] })

	out := make([]assemble.Polygon, 0, len(groups))
	for _, r := range roots {
		idxs := groups[r]
		label := entries[idxs[0]].label
		merged := entries[idxs[0]].geom
		for _, idx := range idxs[1:] {
			merged = merged.Union(entries[idx].geom)
		}
		if len(merged) == 0 {
			return nil, fmt.Errorf("seam: union of label %v produced an empty polygon", label)
		}
		out = append(out, assemble.Polygon{Label: label, Geom: merged})
	}

	if n := len(entries) - len(out); n > 0 {
		logrus.WithField("merged", n).Info("seam: merged cross-tile polygon fragments")
	}
	return out, nil
}

// entrySeamPoints returns the subset of p's own ring vertices that also lie
// in seam, the owning tile's set of window-boundary arc endpoints.
func entrySeamPoints(p geom.Polygon, seam map[geom.Point]bool) map[geom.Point]bool {
	if len(seam) == 0 {
		return nil
	}
	out := make(map[geom.Point]bool)
	for _, ring := range p {
		for _, pt := range ring {
			if seam[pt] {
				out[pt] = true
			}
		}
	}
	return out
}

// sharesSeamVertex reports whether two polygon fragments were traced from
// regions that shared at least one bit-exact seam vertex — the only
// condition under which two same-label fragments from adjacent tiles may
// legitimately be unioned into one polygon (spec.md §4.6). Two disjoint
// same-label blobs whose bounding boxes merely overlap share no such
// vertex and are correctly left unmerged.
func sharesSeamVertex(a, b map[geom.Point]bool) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	small, large := a, b
	if len(large) < len(small) {
		small, large = large, small
	}
	for pt := range small {
		if large[pt] {
			return true
		}
	}
	return false
}
