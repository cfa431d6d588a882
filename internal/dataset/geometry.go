package dataset

import (
	"fmt"
	"io"

	geojson "github.com/paulmach/go.geojson"
)

// Ring is a closed or open sequence of [lon, lat] vertices.
type Ring [][2]float64

// Geometry is the background map outline, consumed opaquely by the map view.
type Geometry struct {
	Rings []Ring
}

// Empty reports whether there is nothing to draw.
func (g *Geometry) Empty() bool {
	return g == nil || len(g.Rings) == 0
}

// ParseGeometry reads a GeoJSON FeatureCollection and flattens every polygon,
// multipolygon and line feature into outline rings. Other geometry types are ignored.
func ParseGeometry(r io.Reader) (*Geometry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geometry: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	g := &Geometry{}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		switch {
		case f.Geometry.IsPolygon():
			g.addRings(f.Geometry.Polygon)
		case f.Geometry.IsMultiPolygon():
			for _, poly := range f.Geometry.MultiPolygon {
				g.addRings(poly)
			}
		case f.Geometry.IsLineString():
			g.addRings([][][]float64{f.Geometry.LineString})
		case f.Geometry.IsMultiLineString():
			g.addRings(f.Geometry.MultiLineString)
		}
	}
	return g, nil
}

func (g *Geometry) addRings(rings [][][]float64) {
	for _, coords := range rings {
		ring := make(Ring, 0, len(coords))
		for _, c := range coords {
			if len(c) < 2 {
				continue
			}
			ring = append(ring, [2]float64{c[0], c[1]})
		}
		if len(ring) > 1 {
			g.Rings = append(g.Rings, ring)
		}
	}
}
