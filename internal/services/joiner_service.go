package services

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
	"github.com/stwalsh4118/blockjoin/internal/export"
	"github.com/stwalsh4118/blockjoin/internal/logger"
	"github.com/stwalsh4118/blockjoin/internal/repository"
)

// JoinerService computes the parcel-to-block spatial assignment and
// exports the matched pairs. It assumes the Loader has run to
// completion: both tables populated and spatially indexed.
type JoinerService interface {
	// Run verifies the CRS precondition, materializes parcels_blocks,
	// runs maintenance, and writes the matched pairs to the output file.
	Run(ctx context.Context) error
}

// joinerService is the concrete implementation of JoinerService.
type joinerService struct {
	blocks      repository.BlockRepository
	parcels     repository.ParcelRepository
	assignments repository.AssignmentRepository
	maintainer  Maintainer
	outputPath  string
	log         *logger.Logger
}

// NewJoinerService creates a new instance of JoinerService.
func NewJoinerService(
	blocks repository.BlockRepository,
	parcels repository.ParcelRepository,
	assignments repository.AssignmentRepository,
	maintainer Maintainer,
	outputPath string,
	log *logger.Logger,
) JoinerService {
	return &joinerService{
		blocks:      blocks,
		parcels:     parcels,
		assignments: assignments,
		maintainer:  maintainer,
		outputPath:  outputPath,
		log:         log,
	}
}

func (s *joinerService) Run(ctx context.Context) error {
	start := time.Now()

	// Precondition: both tables must report an identical spatial
	// reference system. Checked before any mutation.
	blocksSRID, err := s.blocks.SRID(ctx)
	if err != nil {
		return err
	}
	parcelsSRID, err := s.parcels.SRID(ctx)
	if err != nil {
		return err
	}
	if blocksSRID != parcelsSRID {
		return apperrors.CrsMismatchf("blocks table SRID %d != parcels table SRID %d", blocksSRID, parcelsSRID)
	}
	s.log.Info("CRS precondition satisfied", map[string]interface{}{
		"srid": blocksSRID,
	})

	// Materialize the assignment: one row per distinct parcel id.
	if err := s.assignments.Materialize(ctx); err != nil {
		return err
	}

	assignmentCount, err := s.assignments.Count(ctx)
	if err != nil {
		return err
	}
	parcelCount, err := s.parcels.Count(ctx)
	if err != nil {
		return err
	}

	// Round-trip property: every loaded parcel yields exactly one
	// assignment row. Advisory, like the loader's count verification.
	if assignmentCount != parcelCount {
		s.log.Warn("Assignment count does not match parcel count", map[string]interface{}{
			"assignments": assignmentCount,
			"parcels":     parcelCount,
		})
	} else {
		s.log.Info("Materialized assignments", map[string]interface{}{
			"count": assignmentCount,
		})
	}

	// Maintenance pass, outside any transaction
	if err := s.maintainer.Maintain(ctx); err != nil {
		return err
	}

	// Export: non-null matches only, fully loaded into memory.
	matched, err := s.assignments.Matched(ctx)
	if err != nil {
		return err
	}

	// Hard invariant: exported rows never exceed the parcel count; the
	// shortfall is the number of unmatched parcels.
	if int64(len(matched)) > parcelCount {
		return fmt.Errorf("exported %d assignments for %d parcels; join produced duplicate matches",
			len(matched), parcelCount)
	}

	if err := export.WriteAssignments(s.outputPath, matched); err != nil {
		return err
	}

	s.log.Info("Join complete", map[string]interface{}{
		"matched":   len(matched),
		"unmatched": parcelCount - int64(len(matched)),
		"output":    s.outputPath,
		"duration":  time.Since(start).String(),
	})

	return nil
}
