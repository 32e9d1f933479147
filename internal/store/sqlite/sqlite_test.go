package sqlite

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/bonus-hours/internal/timelog"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func entry(date civil.Date, start, end civil.Time) timelog.Entry {
	return timelog.Entry{
		ID:            uuid.New(),
		Operator:      "op-7",
		Machine:       "CNC-2",
		Shift:         "A",
		Activity:      timelog.ActivityProduction,
		Date:          date,
		Start:         start,
		End:           end,
		BonusEligible: true,
		CreatedAt:     time.Date(2024, 3, 4, 17, 0, 0, 123, time.UTC),
	}
}

func TestNew_MigratesToLatest(t *testing.T) {
	store := newTestStore(t)

	version, err := store.Version()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestSaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mon := civil.Date{Year: 2024, Month: time.March, Day: 4}
	tue := civil.Date{Year: 2024, Month: time.March, Day: 5}

	late := entry(mon, civil.Time{Hour: 13}, civil.Time{Hour: 15, Minute: 30})
	early := entry(mon, civil.Time{Hour: 7}, civil.Time{Hour: 9})
	other := entry(tue, civil.Time{Hour: 8}, civil.Time{Hour: 10})
	other.BonusEligible = false
	other.Activity = timelog.ActivityRepair

	for _, e := range []timelog.Entry{late, early, other} {
		require.NoError(t, store.SaveEntry(ctx, e))
	}

	got, err := store.ListEntries(ctx, mon, mon)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, early.ID, got[0].ID)
	assert.Equal(t, late.ID, got[1].ID)
	assert.Equal(t, early.Start, got[0].Start)
	assert.Equal(t, late.End, got[1].End)
	assert.True(t, got[0].CreatedAt.Equal(early.CreatedAt))

	all, err := store.ListEntries(ctx, mon, tue)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.False(t, all[2].BonusEligible)
	assert.Equal(t, timelog.ActivityRepair, all[2].Activity)
	assert.Equal(t, "A", all[2].Shift)
}

func TestListEntries_Empty(t *testing.T) {
	store := newTestStore(t)

	d := civil.Date{Year: 2024, Month: time.January, Day: 1}
	got, err := store.ListEntries(context.Background(), d, d)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSaveEntry_DuplicateID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	e := entry(civil.Date{Year: 2024, Month: time.March, Day: 4}, civil.Time{Hour: 7}, civil.Time{Hour: 8})
	require.NoError(t, store.SaveEntry(ctx, e))
	assert.Error(t, store.SaveEntry(ctx, e))
}
