package geodata

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
	"github.com/stwalsh4118/blockjoin/internal/models"
)

// Feature is one member of a source feature collection: a geometry plus
// its raw attribute map.
type Feature struct {
	Geometry   models.Geometry
	Properties map[string]interface{}
}

// Dataset is a fully parsed source dataset tagged with its declared
// coordinate reference system. Features with null/missing geometry are
// dropped at parse time and counted in Dropped.
type Dataset struct {
	Path     string
	SRID     int
	Features []Feature
	Dropped  int
}

// ReadFeatureCollection parses a GeoJSON FeatureCollection file fully
// into memory. srid is the dataset's declared source reference system;
// GeoJSON itself does not carry one, so it is supplied by configuration.
func ReadFeatureCollection(path string, srid int) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Type       string                 `json:"type"`
			Geometry   models.Geometry        `json:"geometry"`
			Properties map[string]interface{} `json:"properties"`
		} `json:"features"`
	}

	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("%s: expected FeatureCollection, got %q", path, fc.Type)
	}

	ds := &Dataset{
		Path:     path,
		SRID:     srid,
		Features: make([]Feature, 0, len(fc.Features)),
	}

	for _, f := range fc.Features {
		if f.Geometry.IsEmpty() {
			ds.Dropped++
			continue
		}
		geom := f.Geometry
		geom.SRID = srid
		ds.Features = append(ds.Features, Feature{
			Geometry:   geom,
			Properties: f.Properties,
		})
	}

	return ds, nil
}

// Blocks normalizes the dataset into block rows: keep the identifier
// attribute named by geoidProperty plus the geometry, discard everything
// else. An empty or missing identifier fails the dataset.
func (d *Dataset) Blocks(geoidProperty string) ([]models.Block, error) {
	blocks := make([]models.Block, 0, len(d.Features))

	for i, f := range d.Features {
		geoid, err := stringProperty(f.Properties, geoidProperty)
		if err != nil {
			return nil, fmt.Errorf("%s feature %d: %w", d.Path, i, err)
		}
		if geoid == "" {
			return nil, fmt.Errorf("%s feature %d: empty %s identifier", d.Path, i, geoidProperty)
		}
		blocks = append(blocks, models.Block{
			Geoid: geoid,
			Geom:  f.Geometry,
		})
	}

	return blocks, nil
}

// Parcels normalizes the dataset into parcel rows: coerce the identifier
// attribute named by idProperty to integer and keep the geometry,
// discarding every other attribute. Non-numeric identifiers fail with a
// TypeCoercionError naming the feature and value.
func (d *Dataset) Parcels(idProperty string) ([]models.Parcel, error) {
	parcels := make([]models.Parcel, 0, len(d.Features))

	for i, f := range d.Features {
		id, err := intProperty(f.Properties, idProperty)
		if err != nil {
			return nil, apperrors.TypeCoercionf("%s feature %d: %v", d.Path, i, err)
		}
		parcels = append(parcels, models.Parcel{
			ParcelID: id,
			Geom:     f.Geometry,
		})
	}

	return parcels, nil
}

// stringProperty reads a property as a string. Numeric values are
// formatted rather than rejected since identifier columns in exported
// shapefile attributes sometimes arrive as numbers.
func stringProperty(props map[string]interface{}, name string) (string, error) {
	v, ok := props[name]
	if !ok || v == nil {
		return "", fmt.Errorf("missing property %q", name)
	}

	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s), nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("property %q has unsupported type %T", name, v)
	}
}

// intProperty coerces a property to an integer. JSON numbers must be
// whole; strings must parse as base-10 integers.
func intProperty(props map[string]interface{}, name string) (int, error) {
	v, ok := props[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing property %q", name)
	}

	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("property %q value %v is not an integer", name, n)
		}
		return int(n), nil
	case string:
		trimmed := strings.TrimSpace(n)
		id, err := strconv.Atoi(trimmed)
		if err != nil {
			return 0, fmt.Errorf("property %q value %q is not numeric", name, n)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("property %q has unsupported type %T", name, v)
	}
}
