// Package geoio is the C0 collaborator handling raster input and vector
// output: reading a categorical label grid from a NetCDF file (mirroring
// the teacher's own CTM-data loading in popgrid.go/vargrid.go) and writing
// the finished polygons to a shapefile.
package geoio

import (
	"fmt"
	"math"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"

	"github.com/geopolygonize/geopolygonize/raster"
)

// ReadOptions names the NetCDF variable holding the label data and the
// attributes (if present) from which the grid's affine transform and CRS
// are read. Missing geotransform attributes fall back to an identity
// transform with unit pixel size — acceptable for synthetic/test rasters,
// but callers of real imagery should make sure the file carries them.
type ReadOptions struct {
	Variable         string
	NoData           raster.Label
	GeoTransformAttr string // attribute name holding 6 comma-free floats
	CRSAttr          string
}

// DefaultReadOptions mirrors the attribute names GDAL's NetCDF driver
// writes by convention.
func DefaultReadOptions(variable string, nodata raster.Label) ReadOptions {
	return ReadOptions{
		Variable:         variable,
		NoData:           nodata,
		GeoTransformAttr: "geotransform",
		CRSAttr:          "crs_wkt",
	}
}

// ReadLabelGrid reads a 2-D categorical variable from a NetCDF file into a
// raster.Grid, following the same cdf.Open -> Header.Lengths ->
// sparse.ZerosDense -> Reader.Read pipeline the teacher uses for
// continuous CTM fields (popgrid.go's LoadCTMData), rounding each value to
// the nearest integer label.
func ReadLabelGrid(rw cdf.ReaderWriterAt, opts ReadOptions) (*raster.Grid, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("geoio: opening netcdf file: %v", err)
	}
	dims := f.Header.Lengths(opts.Variable)
	if len(dims) != 2 {
		return nil, fmt.Errorf("geoio: variable %q has %d dimensions, want 2", opts.Variable, len(dims))
	}
	ny, nx := dims[0], dims[1]

	r := f.Reader(opts.Variable, nil, nil)
	data := sparse.ZerosDense(dims...)
	tmp := make([]float32, len(data.Elements))
	if _, err := r.Read(tmp); err != nil {
		return nil, fmt.Errorf("geoio: reading variable %q: %v", opts.Variable, err)
	}

	affine := raster.Affine{0, 1, 0, 0, 0, 1}
	if gt, ok := f.Header.GetAttribute("", opts.GeoTransformAttr).([]float64); ok && len(gt) == 6 {
		for i := 0; i < 6; i++ {
			affine[i] = gt[i]
		}
	}
	crs, _ := f.Header.GetAttribute("", opts.CRSAttr).(string)

	g := raster.NewGrid(nx, ny, affine, opts.NoData, crs)
	for i, v := range tmp {
		g.Labels[i] = raster.Label(int32(math.Round(float64(v))))
	}

	logrus.WithFields(logrus.Fields{
		"variable": opts.Variable, "width": nx, "height": ny,
	}).Info("geoio: loaded label grid")
	return g, nil
}
