// Package blobify is a C0 collaborator: it pre-cleans a raw label grid by
// erasing components smaller than a configured minimum size and filling
// them back in by majority vote among their neighbors, so the core engine
// never has to decompose tiny, likely-spurious regions. It is invoked only
// by the CLI before the core pipeline runs, never from within it — ported
// from the Python original's Blobifier (original_source/src/blobifier.py).
package blobify

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/geopolygonize/geopolygonize/raster"
)

// Clean returns a new Grid with every 4-connected component smaller than
// minBlobSize pixels erased and refilled by iterated majority vote among
// its 8-connected neighbors (spec.md's min_blob_size option).
func Clean(g *raster.Grid, minBlobSize int) *raster.Grid {
	sizes := componentSizes(g)

	invalid := make([]bool, len(g.Labels))
	for i, lbl := range g.Labels {
		if lbl == g.NoData || sizes[i] < minBlobSize {
			invalid[i] = true
		}
	}

	cur := make([]raster.Label, len(g.Labels))
	copy(cur, g.Labels)

	nInvalid := countTrue(invalid)
	for nInvalid > 0 {
		next := make([]raster.Label, len(cur))
		copy(next, cur)
		nextInvalid := make([]bool, len(invalid))
		copy(nextInvalid, invalid)

		filled := 0
		for r := 0; r < g.Height; r++ {
			for c := 0; c < g.Width; c++ {
				idx := r*g.Width + c
				if !invalid[idx] {
					continue
				}
				if v, ok := neighborMode(g, cur, invalid, c, r); ok {
					next[idx] = v
					nextInvalid[idx] = false
					filled++
				}
			}
		}
		if filled == 0 {
			// The remaining invalid pixels have no valid neighbor at all
			// (e.g. the whole raster is invalid); leave them as nodata.
			break
		}
		cur, invalid = next, nextInvalid
		nInvalid -= filled
	}

	out := raster.NewGrid(g.Width, g.Height, g.Affine, g.NoData, g.CRS)
	copy(out.Labels, cur)
	logrus.WithField("min_blob_size", minBlobSize).Info("blobify: cleaned small blobs")
	return out
}

// neighborMode returns the most common label among the 8-connected
// neighbors of (c, r) that are not themselves invalid, breaking ties by
// smallest label value for determinism.
func neighborMode(g *raster.Grid, cur []raster.Label, invalid []bool, c, r int) (raster.Label, bool) {
	counts := make(map[raster.Label]int)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			nc, nr := c+dc, r+dr
			if nc < 0 || nr < 0 || nc >= g.Width || nr >= g.Height {
				continue
			}
			nidx := nr*g.Width + nc
			if invalid[nidx] {
				continue
			}
			counts[cur[nidx]]++
		}
	}
	if len(counts) == 0 {
		return 0, false
	}
	labels := make([]raster.Label, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	best, bestCount := labels[0], counts[labels[0]]
	for _, l := range labels[1:] {
		if counts[l] > bestCount {
			best, bestCount = l, counts[l]
		}
	}
	return best, true
}

// componentSizes labels every 4-connected component of equal-label pixels
// (skipping NoData) and returns, for each pixel index, the size of the
// component it belongs to (0 for NoData pixels).
func componentSizes(g *raster.Grid) []int {
	sizes := make([]int, len(g.Labels))
	visited := make([]bool, len(g.Labels))
	for start := 0; start < len(g.Labels); start++ {
		if visited[start] || g.Labels[start] == g.NoData {
			continue
		}
		lbl := g.Labels[start]
		stack := []int{start}
		visited[start] = true
		var comp []int
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, idx)
			r, c := idx/g.Width, idx%g.Width
			for _, d := range [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
				nc, nr := c+d[0], r+d[1]
				if nc < 0 || nr < 0 || nc >= g.Width || nr >= g.Height {
					continue
				}
				nidx := nr*g.Width + nc
				if visited[nidx] || g.Labels[nidx] != lbl {
					continue
				}
				visited[nidx] = true
				stack = append(stack, nidx)
			}
		}
		for _, idx := range comp {
			sizes[idx] = len(comp)
		}
	}
	return sizes
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
