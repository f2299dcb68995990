package arc

import (
	"fmt"
	"strings"

	"github.com/geopolygonize/geopolygonize/region"
)

// canonicalOpen normalizes a junction-to-junction arc run to a single
// direction shared by both regions that produced it, per spec.md §4.3 step
// 4: the two regions sharing an interior arc trace it in exactly opposite
// directions, and the canonical direction starts at the lexicographically
// smaller endpoint. A run that starts and ends at the same junction is
// ordered by the two points next to that junction instead.
//
// reversed reports whether pts had to be flipped to reach canonical form —
// the caller uses it to record the ring-arc index entry.
func canonicalOpen(pts []region.GridPoint) (canon []region.GridPoint, reversed bool) {
	a, b := key(pts[0]), key(pts[len(pts)-1])
	if a == b {
		a, b = key(pts[1]), key(pts[len(pts)-2])
	}
	if lessVKey(b, a) {
		return reverse(pts), true
	}
	return pts, false
}

// canonicalClosed normalizes a closed arc (a ring with no junction anywhere,
// spec.md §9): rotate so the lexicographically smallest vertex is first,
// then pick whichever of the two possible directions visits the
// lexicographically smaller neighbor first.
func canonicalClosed(pts []region.GridPoint) (canon []region.GridPoint, reversed bool) {
	// pts is closed: pts[0] == pts[len-1]. Work over the unique prefix.
	n := len(pts) - 1
	seed := 0
	for i := 1; i < n; i++ {
		if lessVKey(key(pts[i]), key(pts[seed])) {
			seed = i
		}
	}
	rotated := make([]region.GridPoint, n+1)
	for i := 0; i <= n; i++ {
		rotated[i] = pts[(seed+i)%n]
	}
	// rotated[0] == seed, rotated[n] == seed again (closed).
	altRotated := reverse(rotated)
	if lessVKey(key(altRotated[1]), key(rotated[1])) {
		// Determine whether the alternate direction matches pts' own
		// original traversal order or is its reverse.
		return altRotated, !sameDirection(pts, altRotated)
	}
	return rotated, !sameDirection(pts, rotated)
}

// sameDirection reports whether candidate walks the same physical loop in
// the same rotational sense as original (both closed point lists over the
// same vertex set).
func sameDirection(original, candidate []region.GridPoint) bool {
	idx := indexOf(original, candidate[0])
	if idx == -1 {
		return true
	}
	n := len(original) - 1
	next := original[(idx+1)%n]
	return key(next) == key(candidate[1])
}

func indexOf(pts []region.GridPoint, target region.GridPoint) int {
	n := len(pts) - 1
	for i := 0; i < n; i++ {
		if key(pts[i]) == key(target) {
			return i
		}
	}
	return -1
}

func reverse(pts []region.GridPoint) []region.GridPoint {
	out := make([]region.GridPoint, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// pointSeqKey builds a dedup key from a normalized point sequence. Using the
// full sequence (not just the endpoint pair) is strictly safer than an
// endpoints-only key: it still dedups the two mutual traversals of one
// shared arc, but never conflates two distinct arcs that happen to share
// the same pair of junction endpoints.
func pointSeqKey(pts []region.GridPoint) string {
	var b strings.Builder
	for _, p := range pts {
		fmt.Fprintf(&b, "%d,%d;", p.Col, p.Row)
	}
	return b.String()
}
