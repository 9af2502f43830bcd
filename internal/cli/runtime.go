package cli

import (
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/stwalsh4118/blockjoin/internal/config"
	"github.com/stwalsh4118/blockjoin/internal/database"
	"github.com/stwalsh4118/blockjoin/internal/logger"
	"github.com/stwalsh4118/blockjoin/internal/repository"
	"github.com/stwalsh4118/blockjoin/internal/services"
)

// cmdRuntime bundles the per-command pipeline dependencies. The
// database pool is opened in setup and must be released via close;
// there is no module-level connection state.
type cmdRuntime struct {
	cfg *config.Config
	log *logger.Logger
	db  *database.Database
}

// setup loads .env and configuration, builds a run-scoped logger, and
// opens the database pool. Every pipeline run gets a fresh run id.
func setup(cmd *cobra.Command) (*cmdRuntime, error) {
	// A missing .env file is fine; explicit env vars win either way
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Env, getVerboseFlag(cmd)).WithRunID(uuid.NewString())

	log.Info("Connecting to database", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
		"name": cfg.Database.Name,
	})

	db, err := database.NewPostgresPool(cmd.Context(), cfg.Database)
	if err != nil {
		return nil, err
	}

	return &cmdRuntime{
		cfg: cfg,
		log: log,
		db:  db,
	}, nil
}

// close releases the database pool.
func (r *cmdRuntime) close() {
	r.db.Close()
}

// targetSRID is the reference system both tables are created in.
func (r *cmdRuntime) targetSRID() int {
	return r.cfg.Loader.EffectiveSRID(r.cfg.Loader.BlocksSRID)
}

func (r *cmdRuntime) loader() services.LoaderService {
	return services.NewLoaderService(
		r.cfg.Loader,
		repository.NewBlockRepository(r.db, r.targetSRID()),
		repository.NewParcelRepository(r.db, r.targetSRID()),
		r.db,
		r.log,
	)
}

func (r *cmdRuntime) joiner() services.JoinerService {
	return services.NewJoinerService(
		repository.NewBlockRepository(r.db, r.targetSRID()),
		repository.NewParcelRepository(r.db, r.targetSRID()),
		repository.NewAssignmentRepository(r.db),
		r.db,
		r.cfg.Output.Path,
		r.log,
	)
}
