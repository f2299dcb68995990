package main

import (
	"fmt"
	"os"

	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/geopolygonize/geopolygonize"
	"github.com/geopolygonize/geopolygonize/blobify"
	"github.com/geopolygonize/geopolygonize/geoio"
	"github.com/geopolygonize/geopolygonize/raster"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Polygonize a raster and write the result to a shapefile.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPolygonize()
	},
}

func runPolygonize() error {
	input := cast.ToString(cfg.Get("input"))
	output := cast.ToString(cfg.Get("output"))
	if input == "" {
		return &configError{"input is required (--input or config file)"}
	}
	if output == "" {
		return &configError{"output is required (--output or config file)"}
	}
	variable := cast.ToString(cfg.Get("variable"))
	nodata := raster.Label(cast.ToInt32(cfg.Get("nodata")))
	minBlobSize := cast.ToInt(cfg.Get("min_blob_size"))

	f, err := os.Open(input)
	if err != nil {
		return &ioError{fmt.Sprintf("opening %q: %v", input, err)}
	}
	defer f.Close()

	grid, err := geoio.ReadLabelGrid(f, geoio.DefaultReadOptions(variable, nodata))
	if err != nil {
		return &ioError{err.Error()}
	}

	if minBlobSize > 0 {
		grid = blobify.Clean(grid, minBlobSize)
	}

	opts := geopolygonize.Options{
		TileSize:                  cast.ToInt(cfg.Get("tile_size")),
		Workers:                   cast.ToInt(cfg.Get("workers")),
		MetersPerPixel:            cast.ToFloat64(cfg.Get("meters_per_pixel")),
		SimplificationPixelWindow: cast.ToFloat64(cfg.Get("simplification_pixel_window")),
		SmoothingIterations:       cast.ToInt(cfg.Get("smoothing_iterations")),
	}

	result, err := geopolygonize.Polygonize(grid, opts)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Printf("warning: tile (%d,%d): %s\n", w.Col, w.Row, w.Message)
	}

	if err := geoio.WriteShapefile(output, result.Polygons, grid.CRS); err != nil {
		return &ioError{err.Error()}
	}
	fmt.Printf("wrote %d polygons to %s\n", len(result.Polygons), output)
	return nil
}
