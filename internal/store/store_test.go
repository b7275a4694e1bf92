package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servizzmalta/directory-cli/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestRecordRun(t *testing.T) {
	s := openTestStore(t)

	run, err := s.RecordRun(context.Background(), model.SyncRun{
		Mode:     model.SyncMissing,
		Strict:   true,
		Selected: 40,
		Fallback: 2,
		Reused:   10,
		Total:    52,
		Duration: 1234,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.False(t, run.CreatedAt.IsZero())
	assert.Equal(t, model.SyncMissing, run.Mode)
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.RecordRun(ctx, model.SyncRun{Mode: model.SyncMissing, Selected: 1, Total: 1})
	require.NoError(t, err)
	_, err = s.RecordRun(ctx, model.SyncRun{Mode: model.SyncAll, Strict: true, Selected: 2, Total: 2})
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	for _, run := range runs {
		assert.NotEmpty(t, run.ID)
	}

	strictCount := 0
	for _, run := range runs {
		if run.Strict {
			strictCount++
			assert.Equal(t, model.SyncAll, run.Mode)
		}
	}
	assert.Equal(t, 1, strictCount)
}

func TestListRuns_Limit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.RecordRun(ctx, model.SyncRun{Mode: model.SyncMissing, Total: i})
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestListRuns_Empty(t *testing.T) {
	s := openTestStore(t)

	runs, err := s.ListRuns(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
