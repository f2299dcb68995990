package transform

import "github.com/ctessum/geom"

// chaikin applies Chaikin's corner-cutting smoothing `iterations` times.
// Ported from the Python original's numpy formulation: each iteration
// replaces every segment (p_k, p_(k+1)) by its two cut points,
// 0.75*p_k+0.25*p_(k+1) and 0.25*p_k+0.75*p_(k+1), and keeps the first and
// last points in place before and after them — so n points become 2n, and
// an arc's pinned endpoints survive smoothing exactly, open or closed.
// Input with fewer than 3 points is returned unchanged.
func chaikin(points []geom.Point, iterations int) []geom.Point {
	if len(points) == 0 || iterations <= 0 {
		return points
	}
	cur := points
	for iter := 0; iter < iterations; iter++ {
		n := len(cur)
		if n < 3 {
			break
		}
		out := make([]geom.Point, 2*n)
		out[0] = cur[0]
		out[2*n-1] = cur[n-1]
		for j := 1; j <= 2*n-2; j++ {
			if j%2 == 0 {
				k := j / 2
				out[j] = lerp(cur[k], cur[k-1], 0.25)
			} else {
				k := (j - 1) / 2
				out[j] = lerp(cur[k], cur[k+1], 0.25)
			}
		}
		cur = out
	}
	return cur
}

// lerp returns (1-bWeight)*a + bWeight*b; chaikin calls it with bWeight
// 0.25, giving 0.75*a + 0.25*b.
func lerp(a, b geom.Point, bWeight float64) geom.Point {
	return geom.Point{
		X: a.X*(1-bWeight) + b.X*bWeight,
		Y: a.Y*(1-bWeight) + b.Y*bWeight,
	}
}
