package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/blockjoin/internal/database"
	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
	"github.com/stwalsh4118/blockjoin/internal/models"
)

// BlockRepository defines data access for the census block table.
type BlockRepository interface {
	// Provision drops the blocks table if present and recreates it with
	// its spatial index. Load semantics are drop-and-recreate, never
	// incremental.
	Provision(ctx context.Context) error

	// BulkInsert loads every block row in one batched round trip.
	// Geometries are reprojected to the repository's target SRID inside
	// the database; Polygon sources are promoted to MultiPolygon.
	BulkInsert(ctx context.Context, blocks []models.Block) (int64, error)

	// Count returns the number of loaded block rows.
	Count(ctx context.Context) (int64, error)

	// Sample returns up to limit rows for advisory verification output.
	Sample(ctx context.Context, limit int) ([]models.Block, error)

	// SRID reports the spatial reference system of the geometry column.
	SRID(ctx context.Context) (int, error)
}

// blockRepository is the concrete implementation of BlockRepository.
type blockRepository struct {
	db         *database.Database
	targetSRID int
}

// NewBlockRepository creates a new instance of BlockRepository. The
// blocks table's geometry column is typed in targetSRID.
func NewBlockRepository(db *database.Database, targetSRID int) BlockRepository {
	return &blockRepository{
		db:         db,
		targetSRID: targetSRID,
	}
}

const insertBlockSQL = `
	INSERT INTO blocks (geoid, geom)
	VALUES ($1, ST_Multi(ST_Transform(ST_SetSRID(ST_GeomFromGeoJSON($2), $3), $4)))
`

func (r *blockRepository) Provision(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `DROP TABLE IF EXISTS blocks`); err != nil {
		return apperrors.Schema("failed to drop blocks table", err)
	}

	createSQL := fmt.Sprintf(`
		CREATE TABLE blocks (
			id SERIAL PRIMARY KEY,
			geoid TEXT NOT NULL,
			geom geometry(MultiPolygon, %d) NOT NULL
		)`, r.targetSRID)
	if _, err := r.db.Pool.Exec(ctx, createSQL); err != nil {
		return apperrors.Schema("failed to create blocks table", err)
	}

	if _, err := r.db.Pool.Exec(ctx, `CREATE INDEX blocks_geom_idx ON blocks USING GIST (geom)`); err != nil {
		return apperrors.Schema("failed to create blocks spatial index", err)
	}

	return nil
}

// BulkInsert queues one INSERT per block into a pgx batch and sends the
// batch in a single round trip. Rows are independent: there is no
// inter-row transaction coupling, and recovery from a mid-batch failure
// is a full re-run from Provision.
func (r *blockRepository) BulkInsert(ctx context.Context, blocks []models.Block) (int64, error) {
	batch := &pgx.Batch{}
	for _, b := range blocks {
		geoJSON, err := b.Geom.Value()
		if err != nil {
			return 0, fmt.Errorf("failed to encode geometry for block %s: %w", b.Geoid, err)
		}
		batch.Queue(insertBlockSQL, b.Geoid, geoJSON, b.Geom.SRID, r.targetSRID)
	}

	results := r.db.Pool.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for i := range blocks {
		if _, err := results.Exec(); err != nil {
			return inserted, fmt.Errorf("failed to insert block %s (row %d): %w", blocks[i].Geoid, i, err)
		}
		inserted++
	}

	return inserted, nil
}

func (r *blockRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM blocks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count blocks: %w", err)
	}
	return count, nil
}

func (r *blockRepository) Sample(ctx context.Context, limit int) ([]models.Block, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, geoid, ST_AsGeoJSON(geom) FROM blocks ORDER BY id LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query block sample: %w", err)
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		var block models.Block
		var geomJSON []byte

		if err := rows.Scan(&block.ID, &block.Geoid, &geomJSON); err != nil {
			return nil, fmt.Errorf("failed to scan block row: %w", err)
		}
		if err := block.Geom.Scan(geomJSON); err != nil {
			return nil, fmt.Errorf("failed to parse geometry for block %d: %w", block.ID, err)
		}
		block.Geom.SRID = r.targetSRID

		blocks = append(blocks, block)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating block rows: %w", err)
	}

	return blocks, nil
}

func (r *blockRepository) SRID(ctx context.Context) (int, error) {
	var srid int
	err := r.db.Pool.QueryRow(ctx, `SELECT Find_SRID('public', 'blocks', 'geom')`).Scan(&srid)
	if err != nil {
		return 0, fmt.Errorf("failed to look up blocks SRID: %w", err)
	}
	return srid, nil
}
