package blobify

import (
	"testing"

	"github.com/geopolygonize/geopolygonize/raster"
)

func grid(width, height int, nodata raster.Label, rows [][]int) *raster.Grid {
	g := raster.NewGrid(width, height, raster.Affine{0, 1, 0, 0, 0, 1}, nodata, "")
	for r, row := range rows {
		for c, v := range row {
			g.Set(c, r, raster.Label(v))
		}
	}
	return g
}

func TestCleanRemovesSmallBlob(t *testing.T) {
	// A single stray pixel of label 2 inside a sea of label 1 should be
	// swallowed back into label 1.
	g := grid(3, 3, -1, [][]int{
		{1, 1, 1},
		{1, 2, 1},
		{1, 1, 1},
	})
	out := Clean(g, 2)
	for i, v := range out.Labels {
		if v != 1 {
			t.Fatalf("pixel %d: got %v, want 1", i, v)
		}
	}
}

func TestCleanKeepsLargeBlob(t *testing.T) {
	g := grid(4, 2, -1, [][]int{
		{1, 1, 2, 2},
		{1, 1, 2, 2},
	})
	out := Clean(g, 2)
	for i, v := range g.Labels {
		if out.Labels[i] != v {
			t.Fatalf("pixel %d changed: got %v, want %v", i, out.Labels[i], v)
		}
	}
}

func TestCleanFillsNoData(t *testing.T) {
	g := grid(3, 1, -1, [][]int{
		{1, -1, 2},
	})
	out := Clean(g, 1)
	if out.At(1, 0) == -1 {
		t.Fatalf("nodata pixel was not filled")
	}
}
