package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
)

// RouteData is one resolved road path between two points. It is immutable
// once selected for a leg; re-resolution replaces the whole value. Geometry
// points are (lat, lng) pairs in selection order.
type RouteData struct {
	DistanceKm  float64      `json:"distance_km"`
	DurationMin int          `json:"duration_min"`
	Geometry    [][2]float64 `json:"geometry"`
	Summary     string       `json:"summary"`
}

// Value serializes the route as JSON for a jsonb column.
func (r RouteData) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *RouteData) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("cannot scan %T into RouteData", src)
	}
}

// LineString converts the geometry to a go-geom LineString (X=lng, Y=lat).
func (r *RouteData) LineString() *geom.LineString {
	coords := make([]geom.Coord, 0, len(r.Geometry))
	for _, p := range r.Geometry {
		coords = append(coords, geom.Coord{p[1], p[0]})
	}
	ls := geom.NewLineString(geom.XY)
	if len(coords) > 0 {
		ls.MustSetCoords(coords)
	}
	return ls
}

// GeoJSON renders the route geometry as a GeoJSON LineString string for API
// consumers and map layers.
func (r *RouteData) GeoJSON() (string, error) {
	b, err := gjson.Marshal(r.LineString())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
