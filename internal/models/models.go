package models

// Block is a census block polygon as stored in the blocks table.
// The surrogate ID is assigned by the database on insert; Geoid is the
// external fixed-format census block identifier (e.g. GEOID10).
type Block struct {
	ID    int64
	Geoid string
	Geom  Geometry
}

// Parcel is a parcel centroid as stored in the parcels table. ParcelID
// is the external integer parcel identifier coerced from the source
// attribute; Geom is the source geometry before centroid derivation
// (PostGIS derives the centroid on insert, which is trivial for point
// sources and a true centroid for polygon sources).
type Parcel struct {
	ID       int64
	ParcelID int
	Geom     Geometry
}

// Assignment is one row of the materialized parcels_blocks relation:
// exactly one row per distinct parcel surrogate id. A nil BlockGeoid
// means no block's polygon intersects the parcel's point.
type Assignment struct {
	ID         int64
	ParcelID   int
	BlockGeoid *string
}

// ResultRow is an exported (parcel, block) pair. Only assignments with a
// non-null block identifier become result rows.
type ResultRow struct {
	ParcelID   int
	BlockGeoid string
}
