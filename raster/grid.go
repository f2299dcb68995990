// Package raster holds the label-grid data model shared by the rest of
// geopolygonize: a categorical grid, its affine transform, and tile
// descriptors cut from it.
package raster

import (
	"fmt"
	"math"
)

// Label is the integer class label of one pixel. The sentinel label meaning
// "no data" can be any value; it is configured per Grid (Grid.NoData) since
// input rasters vary.
type Label int32

// Outside is the virtual label of the region "outside the raster", used by
// the arc decomposer as the far-side label of any boundary segment that has
// no second contributing region polygon (spec.md §4.3). It is fixed across
// the whole system rather than per-Grid, since it never actually labels a
// pixel — it only ever appears as the "other side" of a segment.
const Outside Label = math.MinInt32

// Affine is the 6-parameter affine transform mapping pixel (col, row)
// indices to planar (x, y) coordinates, in the GDAL/rasterio convention:
//
//	x = A[0] + col*A[1] + row*A[2]
//	y = A[3] + col*A[4] + row*A[5]
type Affine [6]float64

// Apply maps a pixel-grid (col, row) corner to planar coordinates.
func (a Affine) Apply(col, row int) (x, y float64) {
	fc, fr := float64(col), float64(row)
	return a[0] + fc*a[1] + fr*a[2], a[3] + fc*a[4] + fr*a[5]
}

// PixelSize returns the approximate ground size of one pixel, used to
// derive default simplification tolerances. It assumes an axis-aligned
// (non-rotated) transform, which is what C0 raster readers in this system
// produce.
func (a Affine) PixelSize() float64 {
	dx := a[1]
	dy := a[5]
	if dy < 0 {
		dy = -dy
	}
	return (dx + dy) / 2
}

// Grid is a categorical label grid: Width*Height integer labels in
// row-major order, plus the affine transform and a NoData sentinel.
// Ownership: a Grid is read-only once constructed; it is shared by
// reference across tile workers (see tiler.Run).
type Grid struct {
	Width, Height int
	Labels        []Label // row-major, length Width*Height
	Affine        Affine
	NoData        Label
	CRS           string // opaque, never interpreted by the core
}

// NewGrid allocates a Grid of the given size, all pixels set to nodata.
func NewGrid(width, height int, affine Affine, nodata Label, crs string) *Grid {
	labels := make([]Label, width*height)
	for i := range labels {
		labels[i] = nodata
	}
	return &Grid{Width: width, Height: height, Labels: labels, Affine: affine, NoData: nodata, CRS: crs}
}

// At returns the label at (col, row), or g.NoData if out of bounds.
func (g *Grid) At(col, row int) Label {
	if col < 0 || row < 0 || col >= g.Width || row >= g.Height {
		return g.NoData
	}
	return g.Labels[row*g.Width+col]
}

// Set assigns the label at (col, row). Panics if out of bounds, matching
// the teacher's sparse.DenseArray indexing discipline (an out-of-bounds
// write is always a programmer error, never input data).
func (g *Grid) Set(col, row int, label Label) {
	if col < 0 || row < 0 || col >= g.Width || row >= g.Height {
		panic(fmt.Sprintf("raster: Set out of bounds (%d,%d) for %dx%d grid", col, row, g.Width, g.Height))
	}
	g.Labels[row*g.Width+col] = label
}

// Window is a rectangular pixel range [X0,X1) x [Y0,Y1) within a Grid.
type Window struct {
	X0, Y0, X1, Y1 int
}

// Width and Height of the window in pixels.
func (w Window) Width() int  { return w.X1 - w.X0 }
func (w Window) Height() int { return w.Y1 - w.Y0 }

// Tile is a rectangular sub-grid carved out of a Grid, with a 1-pixel halo
// shared with each neighboring tile (spec.md §3, "Tile").
type Tile struct {
	Col, Row int    // tile coordinate in the tile grid, not pixels
	Window   Window // the tile's own pixel range; emitted geometry never crosses its edge
	Halo     Window // Window expanded by up to 1px on each side that has a neighbor, for
	// reading neighbor-pixel labels as context; it is not shared exactly
	// between adjacent tiles and must never define traced geometry or
	// forced-junction vertices (see OnWindowBoundary)
	Source *Grid
}

// At reads a label at grid-absolute pixel coordinates. Used by region/arc
// so tile-local code never indexes the full grid directly.
func (t *Tile) At(col, row int) Label {
	return t.Source.At(col, row)
}

// OnWindowBoundary reports whether (col, row), a vertex position (grid
// corner, not pixel center), lies on the outer edge of t.Window — the
// line a tile shares exactly with its neighbors, unlike t.Halo, which is
// offset by one pixel in opposite directions for each side of a seam and
// so never coincides between adjacent tiles. Vertices on the window
// boundary are forced junctions (spec.md §4.6); region extraction clips
// emitted geometry to the window for the same reason, reading halo
// pixels only for neighbor-label context, never as traced geometry.
func (t *Tile) OnWindowBoundary(col, row int) bool {
	return col == t.Window.X0 || col == t.Window.X1 || row == t.Window.Y0 || row == t.Window.Y1
}

// NewTile builds the tile at tile-grid coordinate (col, row) for a square
// tiling of g with the given tile side length in pixels. The halo expands
// the tile's own window by one pixel on each side that has a neighbor
// (i.e. is not a grid edge), per spec.md §4.1.
func NewTile(g *Grid, col, row, tileSize int) *Tile {
	x0, y0 := col*tileSize, row*tileSize
	x1, y1 := x0+tileSize, y0+tileSize
	if x1 > g.Width {
		x1 = g.Width
	}
	if y1 > g.Height {
		y1 = g.Height
	}
	window := Window{X0: x0, Y0: y0, X1: x1, Y1: y1}

	halo := window
	if x0 > 0 {
		halo.X0--
	}
	if y0 > 0 {
		halo.Y0--
	}
	if x1 < g.Width {
		halo.X1++
	}
	if y1 < g.Height {
		halo.Y1++
	}
	return &Tile{Col: col, Row: row, Window: window, Halo: halo, Source: g}
}

// NTiles returns the number of tiles a square tiling of g into tileSize
// pixel squares produces along each axis.
func NTiles(g *Grid, tileSize int) (cols, rows int) {
	cols = (g.Width + tileSize - 1) / tileSize
	rows = (g.Height + tileSize - 1) / tileSize
	return
}

// SingleTile wraps the whole grid as one tile with no halo, useful for
// tests and for callers that don't need tiled parallelism.
func SingleTile(g *Grid) *Tile {
	w := Window{X0: 0, Y0: 0, X1: g.Width, Y1: g.Height}
	return &Tile{Col: 0, Row: 0, Window: w, Halo: w, Source: g}
}
