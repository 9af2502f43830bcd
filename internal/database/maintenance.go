package database

import (
	"context"
	"fmt"
)

// Maintain runs the post-load storage and statistics maintenance pass
// (VACUUM ANALYZE) over the whole database.
//
// VACUUM cannot run inside a transaction block, so the statement is
// executed on a dedicated connection acquired from the pool: pgx sends
// argument-less Exec calls over the simple query protocol in autocommit
// mode, which is the required non-transactional context. The connection
// is released on every path, restoring normal pool behavior.
func (db *Database) Maintain(ctx context.Context) error {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection for maintenance: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "VACUUM ANALYZE"); err != nil {
		return fmt.Errorf("vacuum analyze failed: %w", err)
	}

	return nil
}
