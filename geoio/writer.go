package geoio

import (
	"fmt"
	"os"

	"github.com/ctessum/geom"
	shpencoding "github.com/ctessum/geom/encoding/shp"

	"github.com/geopolygonize/geopolygonize/assemble"
)

// shapeRecord is the archetype struct handed to shp.NewEncoder: its
// exported fields become shapefile attribute columns, and its Polygon
// field fixes the shape type, per ctessum/geom/encoding/shp's convention.
type shapeRecord struct {
	Label   int
	Polygon geom.Polygon
}

// WriteShapefile writes the finished polygon set as an ESRI shapefile at
// path (without extension; ".shp", ".shx" and ".dbf" are created
// alongside it), tagging each feature with its label.
func WriteShapefile(path string, polys []assemble.Polygon, crs string) error {
	enc, err := shpencoding.NewEncoder(path, shapeRecord{})
	if err != nil {
		return fmt.Errorf("geoio: creating shapefile %q: %v", path, err)
	}
	defer enc.Close()

	for _, p := range polys {
		rec := shapeRecord{Label: int(p.Label), Polygon: p.Geom}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("geoio: encoding label %v: %v", p.Label, err)
		}
	}

	if crs != "" {
		if err := os.WriteFile(path+".prj", []byte(crs), 0o644); err != nil {
			return fmt.Errorf("geoio: writing .prj file: %v", err)
		}
	}
	return nil
}
