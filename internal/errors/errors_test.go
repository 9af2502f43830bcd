package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/stwalsh4118/blockjoin/internal/errors"
)

func TestConnection_WrapsCause(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := apperrors.Connection("failed to ping database", cause)

	require.Error(t, err)
	assert.Contains(t, err.Error(), apperrors.CodeConnection)
	assert.Contains(t, err.Error(), "failed to ping database")
	assert.ErrorIs(t, err, cause)
}

func TestCrsMismatchf_FormatsMessage(t *testing.T) {
	err := apperrors.CrsMismatchf("blocks srid %d != parcels srid %d", 4269, 2277)

	assert.Contains(t, err.Error(), "CRS_MISMATCH")
	assert.Contains(t, err.Error(), "4269")
	assert.Contains(t, err.Error(), "2277")
}

func TestIs_MatchesCode(t *testing.T) {
	err := apperrors.TypeCoercionf("feature %d: parcel_id %q is not numeric", 3, "abc")

	assert.True(t, apperrors.Is(err, apperrors.CodeTypeCoercion))
	assert.False(t, apperrors.Is(err, apperrors.CodeSchema))
	assert.False(t, apperrors.Is(stderrors.New("plain"), apperrors.CodeTypeCoercion))
}

func TestIs_MatchesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("loader: %w", apperrors.Schema("create table blocks failed", stderrors.New("boom")))

	assert.True(t, apperrors.Is(err, apperrors.CodeSchema))
}

func TestExitCode_Mapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, apperrors.ExitSuccess},
		{"plain error", stderrors.New("boom"), apperrors.ExitGeneral},
		{"invalid config", fmt.Errorf("%w: DB_PASSWORD is required", apperrors.ErrInvalidConfig), apperrors.ExitInvalidConfig},
		{"connection", apperrors.Connection("ping", nil), apperrors.ExitConnection},
		{"crs mismatch", apperrors.CrsMismatchf("4269 != 2277"), apperrors.ExitCrsMismatch},
		{"type coercion", apperrors.TypeCoercionf("not numeric"), apperrors.ExitTypeCoercion},
		{"schema", apperrors.Schema("drop failed", nil), apperrors.ExitSchema},
		{"wrapped schema", fmt.Errorf("loader: %w", apperrors.Schema("drop failed", nil)), apperrors.ExitSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.ExitCode(tt.err))
		})
	}
}
