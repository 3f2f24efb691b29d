package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weft-build/weft/internal/adapters/journal"
	"github.com/weft-build/weft/internal/core/domain"
)

func newStore(t *testing.T) *journal.Store {
	t.Helper()
	s, err := journal.NewStore(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndQuery(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []domain.BuildEvent{
		{RunID: "run-1", Time: at, Type: domain.EventRunStarted},
		{
			RunID:   "run-1",
			Time:    at.Add(time.Second),
			Type:    domain.EventProjectCompleted,
			Project: "core",
			Detail:  map[string]string{"result": "success", "uuid": "cafe00000001"},
		},
		{RunID: "run-1", Time: at.Add(2 * time.Second), Type: domain.EventRunCompleted},
	}
	for _, e := range events {
		require.NoError(t, s.Record(ctx, e))
	}

	got, err := s.EventsForRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, domain.EventRunStarted, got[0].Type)
	assert.Equal(t, at, got[0].Time)
	assert.Empty(t, got[0].Project)
	assert.Nil(t, got[0].Detail)

	assert.Equal(t, "core", got[1].Project)
	assert.Equal(t, map[string]string{"result": "success", "uuid": "cafe00000001"}, got[1].Detail)

	assert.Equal(t, domain.EventRunCompleted, got[2].Type)
}

func TestStore_RunsAreIsolated(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.Record(ctx, domain.BuildEvent{RunID: "run-1", Time: now, Type: domain.EventRunStarted}))
	require.NoError(t, s.Record(ctx, domain.BuildEvent{RunID: "run-2", Time: now, Type: domain.EventRunStarted}))

	got, err := s.EventsForRun(ctx, "run-2")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "run-2", got[0].RunID)
}

func TestStore_UnknownRunIsEmpty(t *testing.T) {
	s := newStore(t)

	got, err := s.EventsForRun(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_ReopenSeesPersistedEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	s, err := journal.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, domain.BuildEvent{
		RunID: "run-1",
		Time:  time.Now(),
		Type:  domain.EventRunStarted,
	}))
	require.NoError(t, s.Close())

	reopened, err := journal.NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.EventsForRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.EventRunStarted, got[0].Type)
}
