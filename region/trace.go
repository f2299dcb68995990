package region

import "sort"

// edge is a directed unit-length boundary edge between two grid vertices,
// oriented so that the traced component's interior is always on the
// traveller's right hand side (spec.md §4.2's "standard Moore / square-
// tracing algorithm applied to the pixel-edge graph").
type edge struct {
	from, to vertex
}

func (e edge) dir() vertex { return e.to.sub(e.from) }

// edgesForPixel returns the boundary edges contributed by pixel (c, r)
// given a membership predicate `in` over the component's mask. Each side of
// the pixel contributes an edge iff the neighbor on that side is not in the
// same component.
func edgesForPixel(c, r int, in func(c, r int) bool) []edge {
	var es []edge
	if !in(c, r-1) { // top: below(in)/above(out)
		es = append(es, edge{vertex{c + 1, r}, vertex{c, r}})
	}
	if !in(c, r+1) { // bottom: above(in)/below(out)
		es = append(es, edge{vertex{c, r + 1}, vertex{c + 1, r + 1}})
	}
	if !in(c-1, r) { // left: right(in)/left(out)
		es = append(es, edge{vertex{c, r}, vertex{c, r + 1}})
	}
	if !in(c+1, r) { // right: left(in)/right(out)
		es = append(es, edge{vertex{c + 1, r + 1}, vertex{c + 1, r}})
	}
	return es
}

// traceRings links the boundary edges of one component's mask into closed
// vertex rings. A vertex visited by more than one in/out pair of edges (a
// diagonal self-touch, spec.md §9's "pinch point") is resolved by always
// continuing along the most-clockwise outgoing edge relative to the
// reverse of the incoming edge; this is the standard planar-face-tracing
// turn rule and it splits a pinch into two independent simple rings
// without any separate detection pass.
func traceRings(pixels []vertex, in func(c, r int) bool) [][]vertex {
	out := make(map[vertex][]edge)
	for _, p := range pixels {
		for _, e := range edgesForPixel(p.Col, p.Row, in) {
			out[e.from] = append(out[e.from], e)
		}
	}
	used := make(map[edge]bool)

	starts := make([]vertex, 0, len(out))
	for start := range out {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool {
		if starts[i].Col != starts[j].Col {
			return starts[i].Col < starts[j].Col
		}
		return starts[i].Row < starts[j].Row
	})

	var rings [][]vertex
	for _, start := range starts {
		for _, startEdge := range out[start] {
			if used[startEdge] {
				continue
			}
			ring := []vertex{start}
			cur := startEdge
			for {
				used[cur] = true
				next := cur.to
				if next == start {
					ring = append(ring, next)
					break
				}
				ring = append(ring, next)
				cur = pickNext(out[next], cur.dir(), used)
			}
			rings = append(rings, ring)
		}
	}
	return rings
}

// pickNext chooses the unused outgoing edge at a vertex that is first,
// sweeping clockwise, after the reverse of the incoming direction.
func pickNext(candidates []edge, incoming vertex, used map[edge]bool) edge {
	revIdx := dirIndex(incoming.neg())
	best := -1
	var bestEdge edge
	for _, e := range candidates {
		if used[e] {
			continue
		}
		idx := dirIndex(e.dir())
		delta := ((idx - revIdx) + 4) % 4
		if best == -1 || delta < best {
			best = delta
			bestEdge = e
		}
	}
	if best == -1 {
		panic("region: boundary graph has a dangling vertex; pixel-edge graph is malformed")
	}
	return bestEdge
}
