package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Geometry represents a GeoJSON geometry of any type (Point, Polygon,
// MultiPolygon, ...). Coordinates are kept as raw JSON because every
// geometric operation (reprojection, centroid derivation, intersection)
// is delegated to PostGIS; the Go side only carries the shape through.
// SRID 0 means "not yet assigned"; the source SRID travels separately
// and is stamped on insert with ST_SetSRID.
type Geometry struct {
	Type        string
	Coordinates json.RawMessage
	SRID        int
}

// IsEmpty reports whether the geometry is missing or has no coordinates.
// Source features with empty geometry are dropped before load.
func (g *Geometry) IsEmpty() bool {
	return g == nil || g.Type == "" || len(g.Coordinates) == 0 || string(g.Coordinates) == "null"
}

// Scan implements sql.Scanner for reading geometry from the database.
// PostGIS returns GeoJSON via ST_AsGeoJSON as []byte.
func (g *Geometry) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("failed to scan Geometry: expected []byte or string, got %T", value)
	}

	var geom struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}

	if err := json.Unmarshal(bytes, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal geometry: %w", err)
	}

	if geom.Type == "" {
		return fmt.Errorf("failed to scan Geometry: missing type")
	}

	g.Type = geom.Type
	g.Coordinates = geom.Coordinates

	return nil
}

// Value implements driver.Valuer for writing geometry to the database.
// Returns a GeoJSON string to be used with ST_GeomFromGeoJSON in SQL.
func (g Geometry) Value() (driver.Value, error) {
	if g.IsEmpty() {
		return nil, nil
	}

	geom := map[string]interface{}{
		"type":        g.Type,
		"coordinates": g.Coordinates,
	}

	geoJSON, err := json.Marshal(geom)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal geometry to GeoJSON: %w", err)
	}

	return string(geoJSON), nil
}

// MarshalJSON implements json.Marshaler, producing GeoJSON.
func (g Geometry) MarshalJSON() ([]byte, error) {
	geom := struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}{
		Type:        g.Type,
		Coordinates: g.Coordinates,
	}
	return json.Marshal(geom)
}

// UnmarshalJSON implements json.Unmarshaler for parsing GeoJSON input.
// Used when reading feature collections from source files. A JSON null
// leaves the geometry empty rather than erroring; null source geometries
// are dropped upstream.
func (g *Geometry) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var geom struct {
		Type        string          `json:"type"`
		Coordinates json.RawMessage `json:"coordinates"`
	}

	if err := json.Unmarshal(data, &geom); err != nil {
		return fmt.Errorf("failed to unmarshal geometry: %w", err)
	}

	g.Type = geom.Type
	g.Coordinates = geom.Coordinates

	return nil
}

// NewPoint builds a Point geometry from longitude/latitude (x, y) in the
// given SRID. PostGIS coordinate order is (lng, lat), not (lat, lng).
func NewPoint(lng, lat float64, srid int) Geometry {
	coords, _ := json.Marshal([2]float64{lng, lat})
	return Geometry{
		Type:        "Point",
		Coordinates: coords,
		SRID:        srid,
	}
}
