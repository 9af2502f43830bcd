package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/blockjoin/internal/database"
	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
	"github.com/stwalsh4118/blockjoin/internal/models"
)

// ParcelRepository defines data access for the parcel centroid table.
type ParcelRepository interface {
	// Provision drops the parcels table if present and recreates it with
	// its spatial index.
	Provision(ctx context.Context) error

	// BulkInsert loads every parcel row in one batched round trip. The
	// stored geometry is the centroid of the source geometry, reprojected
	// to the repository's target SRID inside the database. Point sources
	// yield trivial centroids, polygon sources true centroids.
	BulkInsert(ctx context.Context, parcels []models.Parcel) (int64, error)

	// Count returns the number of loaded parcel rows.
	Count(ctx context.Context) (int64, error)

	// Sample returns up to limit rows for advisory verification output.
	Sample(ctx context.Context, limit int) ([]models.Parcel, error)

	// SRID reports the spatial reference system of the geometry column.
	SRID(ctx context.Context) (int, error)
}

// parcelRepository is the concrete implementation of ParcelRepository.
type parcelRepository struct {
	db         *database.Database
	targetSRID int
}

// NewParcelRepository creates a new instance of ParcelRepository.
func NewParcelRepository(db *database.Database, targetSRID int) ParcelRepository {
	return &parcelRepository{
		db:         db,
		targetSRID: targetSRID,
	}
}

const insertParcelSQL = `
	INSERT INTO parcels (parcel_id, geom)
	VALUES ($1, ST_Centroid(ST_Transform(ST_SetSRID(ST_GeomFromGeoJSON($2), $3), $4)))
`

func (r *parcelRepository) Provision(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `DROP TABLE IF EXISTS parcels`); err != nil {
		return apperrors.Schema("failed to drop parcels table", err)
	}

	createSQL := fmt.Sprintf(`
		CREATE TABLE parcels (
			id SERIAL PRIMARY KEY,
			parcel_id INTEGER NOT NULL,
			geom geometry(Point, %d) NOT NULL
		)`, r.targetSRID)
	if _, err := r.db.Pool.Exec(ctx, createSQL); err != nil {
		return apperrors.Schema("failed to create parcels table", err)
	}

	if _, err := r.db.Pool.Exec(ctx, `CREATE INDEX parcels_geom_idx ON parcels USING GIST (geom)`); err != nil {
		return apperrors.Schema("failed to create parcels spatial index", err)
	}

	return nil
}

func (r *parcelRepository) BulkInsert(ctx context.Context, parcels []models.Parcel) (int64, error) {
	batch := &pgx.Batch{}
	for _, p := range parcels {
		geoJSON, err := p.Geom.Value()
		if err != nil {
			return 0, fmt.Errorf("failed to encode geometry for parcel %d: %w", p.ParcelID, err)
		}
		batch.Queue(insertParcelSQL, p.ParcelID, geoJSON, p.Geom.SRID, r.targetSRID)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for i := range parcels {
		if _, err := results.Exec(); err != nil {
			return inserted, fmt.Errorf("failed to insert parcel %d (row %d): %w", parcels[i].ParcelID, i, err)
		}
		inserted++
	}

	return inserted, nil
}

func (r *parcelRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM parcels`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count parcels: %w", err)
	}
	return count, nil
}

func (r *parcelRepository) Sample(ctx context.Context, limit int) ([]models.Parcel, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, parcel_id, ST_AsGeoJSON(geom) FROM parcels ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query parcel sample: %w", err)
	}
	defer rows.Close()

	var parcels []models.Parcel
	for rows.Next() {
		var parcel models.Parcel
		var geomJSON []byte

		if err := rows.Scan(&parcel.ID, &parcel.ParcelID, &geomJSON); err != nil {
			return nil, fmt.Errorf("failed to scan parcel row: %w", err)
		}
		if err := parcel.Geom.Scan(geomJSON); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for parcel %d: %w", parcel.ID, err)
		}
		parcel.Geom.SRID = r.targetSRID

		parcels = append(parcels, parcel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parcel rows: %w", err)
	}

	return parcels, nil
}

func (r *parcelRepository) SRID(ctx context.Context) (int, error) {
	var srid int
	err := r.db.Pool.QueryRow(ctx, `SELECT Find_SRID('public', 'parcels', 'geom')`).Scan(&srid)
	if err != nil {
		return 0, fmt.Errorf("failed to look up parcels SRID: %w", err)
	}
	return srid, nil
}
