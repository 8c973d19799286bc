package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChizhovVadim/DigitRecognizer/internal/domain"
)

func TestRecordResults(t *testing.T) {
	var ctx = context.Background()
	store, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	defer store.Close()

	var recorded = []domain.PhaseResult{
		{RunID: "run-1", Phase: domain.PhaseTrain, RowCap: 100, Rows: 100, Accuracy: 0.99, HasAccuracy: true, Elapsed: 1500 * time.Millisecond},
		{RunID: "run-1", Phase: domain.PhaseCrossValidate, RowCap: 100, Rows: 80, Accuracy: 0.9, HasAccuracy: true, Elapsed: 20 * time.Millisecond},
		{RunID: "run-2", Phase: domain.PhaseTrain, Rows: 5},
		{RunID: "run-1", Phase: domain.PhaseTest, RowCap: 100, Rows: 50, Elapsed: time.Second},
	}
	for _, r := range recorded {
		require.NoError(t, store.Record(ctx, r))
	}

	results, err := store.Results(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, recorded[0], results[0])
	assert.Equal(t, recorded[1], results[1])
	assert.Equal(t, recorded[3], results[2])
	assert.False(t, results[2].HasAccuracy)

	results, err = store.Results(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReopenKeepsResults(t *testing.T) {
	var ctx = context.Background()
	var path = filepath.Join(t.TempDir(), "results.db")
	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Record(ctx, domain.PhaseResult{RunID: "a", Phase: domain.PhaseTrain, Rows: 1}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	results, err := store.Results(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
