// Package assemble implements C5, the polygon reassembler: it concatenates
// each region's transformed arcs back into shell and hole rings, in the
// order recorded by the arc decomposer's ring-arc index, and fixes
// orientation so shells are CCW and holes are CW (spec.md §4.4).
package assemble

import (
	"fmt"

	"github.com/ctessum/geom"

	"github.com/geopolygonize/geopolygonize/arc"
	"github.com/geopolygonize/geopolygonize/raster"
	"github.com/geopolygonize/geopolygonize/transform"
)

// Polygon is one assembled region: Geom[0] is the shell, any further
// entries are holes, matching ctessum/geom's Polygon convention so the
// result can go straight into Polygon.Area/Union/shapefile encoding.
type Polygon struct {
	Label raster.Label
	Geom  geom.Polygon
}

// Options controls optional post-assembly checks.
type Options struct {
	// Strict, when true, rejects any assembled polygon whose shell winds
	// clockwise or whose holes wind counterclockwise after reassembly —
	// a sign that a bug upstream produced a mismatched arc ordering.
	Strict bool
}

// Warning is a non-fatal reassembly repair: a hole that no longer lies
// inside its declared shell (a pinch or transform rounding moved it) was
// reparented to a different enclosing shell of the same label, or, if
// none exists, demoted to a shell of its own.
type Warning struct {
	Label   raster.Label
	Message string
}

// Assemble reassembles every polygon referenced by a tile's ring-arc index
// using the corresponding transformed arc geometry, then repairs hole
// nesting (spec.md §4.5).
func Assemble(decomp *arc.Decomposition, arcs []transform.Arc, opts Options) ([]Polygon, []Warning, error) {
	byID := make(map[int]transform.Arc, len(arcs))
	for _, a := range arcs {
		byID[a.ID] = a
	}

	type built struct {
		label raster.Label
		shell []geom.Point
		holes [][]geom.Point
	}
	items := make([]built, len(decomp.Polys))
	for i, pr := range decomp.Polys {
		shell, err := buildRing(pr.ShellRefs, byID)
		if err != nil {
			return nil, nil, fmt.Errorf("assemble: polygon %d (label %v) shell: %w", i, pr.Label, err)
		}
		if opts.Strict && signedArea(shell) <= 0 {
			return nil, nil, fmt.Errorf("assemble: polygon %d (label %v) shell wound clockwise after reassembly", i, pr.Label)
		} else if signedArea(shell) < 0 {
			shell = reversePts(shell)
		}

		var holes [][]geom.Point
		for hi, refs := range pr.HoleRefs {
			hole, err := buildRing(refs, byID)
			if err != nil {
				return nil, nil, fmt.Errorf("assemble: polygon %d (label %v) hole %d: %w", i, pr.Label, hi, err)
			}
			if opts.Strict && signedArea(hole) >= 0 {
				return nil, nil, fmt.Errorf("assemble: polygon %d (label %v) hole %d wound counterclockwise after reassembly", i, pr.Label, hi)
			} else if signedArea(hole) > 0 {
				hole = reversePts(hole)
			}
			holes = append(holes, hole)
		}
		items[i] = built{label: pr.Label, shell: shell, holes: holes}
	}

	var out []Polygon
	var warnings []Warning
	for _, it := range items {
		out = append(out, Polygon{Label: it.label, Geom: geom.Polygon{it.shell}})
	}
	// Re-nest: reassign each hole to whichever same-label shell actually
	// contains it (cheapest fix for a pinch/rounding-displaced hole);
	// demote to its own shell-only polygon if none does.
	for pi, it := range items {
		for hi, hole := range it.holes {
			home := pi
			if !ringInsideShell(hole, it.shell) {
				home = -1
				for cand := range items {
					if items[cand].label != it.label {
						continue
					}
					if ringInsideShell(hole, items[cand].shell) {
						home = cand
						break
					}
				}
				if home == -1 {
					warnings = append(warnings, Warning{
						Label:   it.label,
						Message: fmt.Sprintf("hole %d of polygon %d has no enclosing shell; demoted to its own shell", hi, pi),
					})
					out = append(out, Polygon{Label: it.label, Geom: geom.Polygon{reversePts(hole)}})
					continue
				}
				if home != pi {
					warnings = append(warnings, Warning{
						Label:   it.label,
						Message: fmt.Sprintf("hole %d of polygon %d reparented to polygon %d", hi, pi, home),
					})
				}
			}
			out[home].Geom = append(out[home].Geom, hole)
		}
	}
	return out, warnings, nil
}

// ringInsideShell reports whether every vertex of hole lies within (or on
// the boundary of) the polygon formed by shell — a cheap, sufficient test
// since holes and shells here always meet at pinned, shared vertices and
// never partially overlap.
func ringInsideShell(hole, shell []geom.Point) bool {
	poly := geom.Polygon{shell}
	for _, p := range hole {
		if p.Within(poly) == geom.Outside {
			return false
		}
	}
	return true
}

// buildRing concatenates the arcs referenced by refs, in order, dropping
// the duplicate junction vertex shared between consecutive arcs.
func buildRing(refs []arc.Ref, byID map[int]transform.Arc) ([]geom.Point, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("ring has no arc references")
	}
	var ring []geom.Point
	for i, ref := range refs {
		a, ok := byID[ref.ID]
		if !ok {
			return nil, fmt.Errorf("ring references unknown arc %d", ref.ID)
		}
		pts := a.Points
		if ref.Reversed {
			pts = reversePts(pts)
		}
		if i == 0 {
			ring = append(ring, pts...)
		} else {
			ring = append(ring, pts[1:]...)
		}
	}
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring, nil
}

func reversePts(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

func signedArea(pts []geom.Point) float64 {
	var sum float64
	for i := 0; i+1 < len(pts); i++ {
		a, b := pts[i], pts[i+1]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum
}
