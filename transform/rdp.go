package transform

import (
	"math"

	"github.com/ctessum/geom"
)

// rdp runs the Ramer-Douglas-Peucker algorithm over an open polyline,
// always keeping its first and last points.
func rdp(points []geom.Point, tolerance float64) []geom.Point {
	if len(points) < 3 || tolerance <= 0 {
		return points
	}
	first, last := points[0], points[len(points)-1]
	maxDist := -1.0
	maxIdx := -1
	for i := 1; i < len(points)-1; i++ {
		d := perpendicularDistance(points[i], first, last)
		if d > maxDist {
			maxDist = d
			maxIdx = i
		}
	}
	if maxDist <= tolerance {
		return []geom.Point{first, last}
	}
	left := rdp(points[:maxIdx+1], tolerance)
	right := rdp(points[maxIdx:], tolerance)
	return append(left[:len(left)-1:len(left)-1], right...)
}

func perpendicularDistance(p, a, b geom.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx == 0 && dy == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	num := math.Abs(dy*p.X - dx*p.Y + b.X*a.Y - b.Y*a.X)
	den := math.Hypot(dx, dy)
	return num / den
}

// simplifyOpen applies rdp directly; its endpoints are always preserved.
func simplifyOpen(points []geom.Point, tolerance float64) []geom.Point {
	return rdp(points, tolerance)
}

// simplifyClosed simplifies a closed ring (points[0] == points[last]) by
// splitting it at its midpoint into two open segments, simplifying each
// independently, then rejoining them — the technique the Python original
// uses so Douglas-Peucker (which degenerates a whole ring to near-nothing)
// never sees the ring as a single segment. Both the seed vertex and the
// midpoint are preserved exactly, matching spec.md's pinned-endpoint
// requirement for arcs.
func simplifyClosed(points []geom.Point, tolerance float64) []geom.Point {
	if len(points) < 3 {
		return points
	}
	mid := len(points) / 2
	seg1 := rdp(points[:mid+1], tolerance)
	seg2 := rdp(points[mid:], tolerance)
	out := make([]geom.Point, 0, len(seg1)+len(seg2)-1)
	out = append(out, seg1[:len(seg1)-1]...)
	out = append(out, seg2...)
	return out
}
