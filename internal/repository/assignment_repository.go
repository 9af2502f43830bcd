package repository

import (
	"context"
	"fmt"

	"github.com/stwalsh4118/blockjoin/internal/database"
	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
	"github.com/stwalsh4118/blockjoin/internal/models"
)

// AssignmentRepository materializes and reads the parcels_blocks
// relation: exactly one row per distinct parcel surrogate id, with a
// null block_geoid for parcels outside every block.
type AssignmentRepository interface {
	// Materialize drops and rebuilds parcels_blocks from the current
	// contents of parcels and blocks. The relation is ephemeral; it is
	// consumed immediately by the export step.
	Materialize(ctx context.Context) error

	// Count returns the number of assignment rows (one per parcel).
	Count(ctx context.Context) (int64, error)

	// Matched returns the assignments with a non-null block identifier,
	// ordered by external parcel id.
	Matched(ctx context.Context) ([]models.ResultRow, error)
}

// assignmentRepository is the concrete implementation of AssignmentRepository.
type assignmentRepository struct {
	db *database.Database
}

// NewAssignmentRepository creates a new instance of AssignmentRepository.
func NewAssignmentRepository(db *database.Database) AssignmentRepository {
	return &assignmentRepository{
		db: db,
	}
}

// materializeSQL assigns each parcel to the census block whose geometry
// intersects its point, boundary touches included. DISTINCT ON collapses
// boundary ties (a centroid exactly on a shared edge matches both
// blocks) to a single row; the ORDER BY makes the surviving row
// deterministic per run (lowest geoid wins), though which block wins is
// arbitrary by contract. Unmatched parcels keep a NULL geoid via the
// LEFT JOIN.
const materializeSQL = `
	CREATE TABLE parcels_blocks AS
	SELECT DISTINCT ON (p.id)
		p.id,
		p.parcel_id,
		b.geoid AS block_geoid
	FROM parcels p
	LEFT JOIN blocks b
		ON ST_Intersects(b.geom, p.geom)
	ORDER BY p.id, b.geoid
`

func (r *assignmentRepository) Materialize(ctx context.Context) error {
	if _, err := r.db.Pool.Exec(ctx, `DROP TABLE IF EXISTS parcels_blocks`); err != nil {
		return apperrors.Schema("failed to drop parcels_blocks table", err)
	}

	if _, err := r.db.Pool.Exec(ctx, materializeSQL); err != nil {
		return apperrors.Schema("failed to materialize parcels_blocks", err)
	}

	return nil
}

func (r *assignmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM parcels_blocks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}

func (r *assignmentRepository) Matched(ctx context.Context) ([]models.ResultRow, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT parcel_id, block_geoid
		FROM parcels_blocks
		WHERE block_geoid IS NOT NULL
		ORDER BY parcel_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query matched assignments: %w", err)
	}
	defer rows.Close()

	var results []models.ResultRow
	for rows.Next() {
		var row models.ResultRow
		if err := rows.Scan(&row.ParcelID, &row.BlockGeoid); err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignment rows: %w", err)
	}

	if results == nil {
		results = []models.ResultRow{}
	}

	return results, nil
}
