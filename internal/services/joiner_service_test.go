package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
	"github.com/stwalsh4118/blockjoin/internal/logger"
	"github.com/stwalsh4118/blockjoin/internal/models"
)

func TestJoinerRun_Success(t *testing.T) {
	// Arrange
	blocks := new(MockBlockRepository)
	parcels := new(MockParcelRepository)
	assignments := new(MockAssignmentRepository)
	maintainer := new(MockMaintainer)
	log := logger.New("test", false)
	outputPath := filepath.Join(t.TempDir(), "parcels_joined_blocks.csv")

	blocks.On("SRID", mock.Anything).Return(4326, nil)
	parcels.On("SRID", mock.Anything).Return(4326, nil)
	assignments.On("Materialize", mock.Anything).Return(nil)
	assignments.On("Count", mock.Anything).Return(int64(4), nil)
	parcels.On("Count", mock.Anything).Return(int64(4), nil)
	maintainer.On("Maintain", mock.Anything).Return(nil)
	assignments.On("Matched", mock.Anything).Return([]models.ResultRow{
		{ParcelID: 1001, BlockGeoid: "481339501002020"},
		{ParcelID: 1003, BlockGeoid: "481339501002021"},
		{ParcelID: 1004, BlockGeoid: "481339501002021"},
	}, nil)

	joiner := NewJoinerService(blocks, parcels, assignments, maintainer, outputPath, log)

	// Act
	err := joiner.Run(context.Background())

	// Assert
	require.NoError(t, err)
	blocks.AssertExpectations(t)
	parcels.AssertExpectations(t)
	assignments.AssertExpectations(t)
	maintainer.AssertExpectations(t)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, "parcel_id,block_geoid", lines[0])
	assert.Equal(t, "1001,481339501002020", lines[1])
}

func TestJoinerRun_CrsMismatch_BeforeMaterialize(t *testing.T) {
	// Arrange
	blocks := new(MockBlockRepository)
	parcels := new(MockParcelRepository)
	assignments := new(MockAssignmentRepository)
	maintainer := new(MockMaintainer)
	log := logger.New("test", false)

	blocks.On("SRID", mock.Anything).Return(4326, nil)
	parcels.On("SRID", mock.Anything).Return(2277, nil)

	joiner := NewJoinerService(blocks, parcels, assignments, maintainer,
		filepath.Join(t.TempDir(), "out.csv"), log)

	// Act
	err := joiner.Run(context.Background())

	// Assert
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeCrsMismatch))
	assignments.AssertNotCalled(t, "Materialize", mock.Anything)
	maintainer.AssertNotCalled(t, "Maintain", mock.Anything)
}

func TestJoinerRun_ExportInvariantViolation(t *testing.T) {
	// Arrange: more matched rows than parcels means the join produced
	// duplicates; the run must fail and write nothing
	blocks := new(MockBlockRepository)
	parcels := new(MockParcelRepository)
	assignments := new(MockAssignmentRepository)
	maintainer := new(MockMaintainer)
	log := logger.New("test", false)
	outputPath := filepath.Join(t.TempDir(), "out.csv")

	blocks.On("SRID", mock.Anything).Return(4326, nil)
	parcels.On("SRID", mock.Anything).Return(4326, nil)
	assignments.On("Materialize", mock.Anything).Return(nil)
	assignments.On("Count", mock.Anything).Return(int64(2), nil)
	parcels.On("Count", mock.Anything).Return(int64(2), nil)
	maintainer.On("Maintain", mock.Anything).Return(nil)
	assignments.On("Matched", mock.Anything).Return([]models.ResultRow{
		{ParcelID: 1, BlockGeoid: "a"},
		{ParcelID: 1, BlockGeoid: "b"},
		{ParcelID: 2, BlockGeoid: "c"},
	}, nil)

	joiner := NewJoinerService(blocks, parcels, assignments, maintainer, outputPath, log)

	// Act
	err := joiner.Run(context.Background())

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate matches")
	_, statErr := os.Stat(outputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestJoinerRun_CountMismatchIsAdvisory(t *testing.T) {
	// Arrange: assignment count differing from parcel count logs a
	// warning but the run continues to export
	blocks := new(MockBlockRepository)
	parcels := new(MockParcelRepository)
	assignments := new(MockAssignmentRepository)
	maintainer := new(MockMaintainer)
	log := logger.New("test", false)
	outputPath := filepath.Join(t.TempDir(), "out.csv")

	blocks.On("SRID", mock.Anything).Return(4326, nil)
	parcels.On("SRID", mock.Anything).Return(4326, nil)
	assignments.On("Materialize", mock.Anything).Return(nil)
	assignments.On("Count", mock.Anything).Return(int64(2), nil)
	parcels.On("Count", mock.Anything).Return(int64(3), nil)
	maintainer.On("Maintain", mock.Anything).Return(nil)
	assignments.On("Matched", mock.Anything).Return([]models.ResultRow{
		{ParcelID: 1, BlockGeoid: "a"},
	}, nil)

	joiner := NewJoinerService(blocks, parcels, assignments, maintainer, outputPath, log)

	// Act / Assert
	require.NoError(t, joiner.Run(context.Background()))

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "parcel_id,block_geoid\n1,a\n", string(data))
}

func TestJoinerRun_MaintenanceErrorPropagates(t *testing.T) {
	// Arrange
	blocks := new(MockBlockRepository)
	parcels := new(MockParcelRepository)
	assignments := new(MockAssignmentRepository)
	maintainer := new(MockMaintainer)
	log := logger.New("test", false)

	blocks.On("SRID", mock.Anything).Return(4326, nil)
	parcels.On("SRID", mock.Anything).Return(4326, nil)
	assignments.On("Materialize", mock.Anything).Return(nil)
	assignments.On("Count", mock.Anything).Return(int64(1), nil)
	parcels.On("Count", mock.Anything).Return(int64(1), nil)
	maintainer.On("Maintain", mock.Anything).Return(assert.AnError)

	joiner := NewJoinerService(blocks, parcels, assignments, maintainer,
		filepath.Join(t.TempDir(), "out.csv"), log)

	// Act
	err := joiner.Run(context.Background())

	// Assert
	require.Error(t, err)
	assignments.AssertNotCalled(t, "Matched", mock.Anything)
}
