package services

import (
	"context"
	"time"

	"github.com/stwalsh4118/blockjoin/internal/config"
	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
	"github.com/stwalsh4118/blockjoin/internal/geodata"
	"github.com/stwalsh4118/blockjoin/internal/logger"
	"github.com/stwalsh4118/blockjoin/internal/repository"
)

// Maintainer runs the post-load storage/statistics maintenance pass.
// *database.Database implements it.
type Maintainer interface {
	Maintain(ctx context.Context) error
}

// sampleSize is the number of rows logged per table during the advisory
// verification step.
const sampleSize = 3

// LoaderService populates the two geometry tables from source files.
type LoaderService interface {
	// Run executes the whole load pipeline: read and tag both datasets,
	// assert the CRS contract, normalize attributes, provision schemas,
	// bulk load, run maintenance, and report advisory verification.
	// Any failure aborts the run; recovery is a full re-run.
	Run(ctx context.Context) error
}

// loaderService is the concrete implementation of LoaderService.
type loaderService struct {
	cfg        config.LoaderConfig
	blocks     repository.BlockRepository
	parcels    repository.ParcelRepository
	maintainer Maintainer
	log        *logger.Logger
}

// NewLoaderService creates a new instance of LoaderService.
func NewLoaderService(
	cfg config.LoaderConfig,
	blocks repository.BlockRepository,
	parcels repository.ParcelRepository,
	maintainer Maintainer,
	log *logger.Logger,
) LoaderService {
	return &loaderService{
		cfg:        cfg,
		blocks:     blocks,
		parcels:    parcels,
		maintainer: maintainer,
		log:        log,
	}
}

func (s *loaderService) Run(ctx context.Context) error {
	start := time.Now()

	// Step 1: read both datasets fully into memory, tagged with their
	// declared source reference systems. Null-geometry features are
	// dropped at parse time.
	blocksDS, err := geodata.ReadFeatureCollection(s.cfg.BlocksPath, s.cfg.BlocksSRID)
	if err != nil {
		return err
	}
	s.log.Info("Read blocks dataset", map[string]interface{}{
		"path":     blocksDS.Path,
		"srid":     blocksDS.SRID,
		"features": len(blocksDS.Features),
		"dropped":  blocksDS.Dropped,
	})

	parcelsDS, err := geodata.ReadFeatureCollection(s.cfg.ParcelsPath, s.cfg.ParcelsSRID)
	if err != nil {
		return err
	}
	s.log.Info("Read parcels dataset", map[string]interface{}{
		"path":     parcelsDS.Path,
		"srid":     parcelsDS.SRID,
		"features": len(parcelsDS.Features),
		"dropped":  parcelsDS.Dropped,
	})

	// Step 2: CRS contract. Both datasets must land in the same
	// reference system; asserted here, before any table is touched.
	blocksSRID := s.cfg.EffectiveSRID(blocksDS.SRID)
	parcelsSRID := s.cfg.EffectiveSRID(parcelsDS.SRID)
	if blocksSRID != parcelsSRID {
		return apperrors.CrsMismatchf(
			"blocks would load in SRID %d but parcels in SRID %d; enable reprojection or align sources",
			blocksSRID, parcelsSRID)
	}

	// Step 3: attribute normalization
	blockRows, err := blocksDS.Blocks(s.cfg.BlocksGeoidProp)
	if err != nil {
		return err
	}
	parcelRows, err := parcelsDS.Parcels(s.cfg.ParcelsIDProp)
	if err != nil {
		return err
	}

	// Step 4: schema provisioning (drop-and-recreate)
	if err := s.blocks.Provision(ctx); err != nil {
		return err
	}
	if err := s.parcels.Provision(ctx); err != nil {
		return err
	}
	s.log.Info("Provisioned tables", map[string]interface{}{
		"srid": blocksSRID,
	})

	// Step 5: bulk load
	blocksInserted, err := s.blocks.BulkInsert(ctx, blockRows)
	if err != nil {
		return err
	}
	s.log.Info("Loaded blocks", map[string]interface{}{
		"inserted": blocksInserted,
	})

	parcelsInserted, err := s.parcels.BulkInsert(ctx, parcelRows)
	if err != nil {
		return err
	}
	s.log.Info("Loaded parcels", map[string]interface{}{
		"inserted": parcelsInserted,
	})

	// Step 6: maintenance pass, outside any transaction
	if err := s.maintainer.Maintain(ctx); err != nil {
		return err
	}

	// Step 7: advisory verification. Count mismatches are observable,
	// not enforced.
	s.verifyBlocks(ctx, int64(len(blockRows)))
	s.verifyParcels(ctx, int64(len(parcelRows)))

	s.log.Info("Load complete", map[string]interface{}{
		"blocks":   blocksInserted,
		"parcels":  parcelsInserted,
		"duration": time.Since(start).String(),
	})

	return nil
}

func (s *loaderService) verifyBlocks(ctx context.Context, expected int64) {
	count, err := s.blocks.Count(ctx)
	if err != nil {
		s.log.Warn("Failed to count blocks during verification", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if count != expected {
		s.log.Warn("Block count does not match prepared dataset", map[string]interface{}{
			"expected": expected,
			"actual":   count,
		})
	} else {
		s.log.Info("Verified block count", map[string]interface{}{
			"count": count,
		})
	}

	sample, err := s.blocks.Sample(ctx, sampleSize)
	if err != nil {
		s.log.Warn("Failed to sample blocks", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	for _, b := range sample {
		s.log.Debug("Block sample row", map[string]interface{}{
			"id":    b.ID,
			"geoid": b.Geoid,
			"type":  b.Geom.Type,
		})
	}
}

func (s *loaderService) verifyParcels(ctx context.Context, expected int64) {
	count, err := s.parcels.Count(ctx)
	if err != nil {
		s.log.Warn("Failed to count parcels during verification", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	if count != expected {
		s.log.Warn("Parcel count does not match prepared dataset", map[string]interface{}{
			"expected": expected,
			"actual":   count,
		})
	} else {
		s.log.Info("Verified parcel count", map[string]interface{}{
			"count": count,
		})
	}

	sample, err := s.parcels.Sample(ctx, sampleSize)
	if err != nil {
		s.log.Warn("Failed to sample parcels", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}
	for _, p := range sample {
		s.log.Debug("Parcel sample row", map[string]interface{}{
			"id":        p.ID,
			"parcel_id": p.ParcelID,
			"type":      p.Geom.Type,
		})
	}
}
