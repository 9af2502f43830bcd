package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// PostGIS image: the pipeline needs the spatial engine, not plain Postgres.
	PostgisImage     = "postgis/postgis:16-3.4"
	PostgresUser     = "postgres"
	PostgresPassword = "postgres"
	PostgresDB       = "blockjoin"
)

type PostgisContainer struct {
	*postgres.PostgresContainer
	ConnString string
}

// StartPostgis boots a disposable PostGIS container for integration
// tests and returns its connection string.
func StartPostgis(ctx context.Context) (*PostgisContainer, error) {
	ctr, err := postgres.Run(ctx,
		PostgisImage,
		postgres.WithUsername(PostgresUser),
		postgres.WithPassword(PostgresPassword),
		postgres.WithDatabase(PostgresDB),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(120*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgis: %w", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get connection string: %w", err)
	}

	return &PostgisContainer{PostgresContainer: ctr, ConnString: connStr}, nil
}
