package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/cafe-pos/internal/orderlog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func entry(orderID string, event orderlog.Event, status string, at time.Time) *orderlog.Entry {
	return &orderlog.Entry{
		OrderID:    orderID,
		Event:      event,
		Status:     status,
		LineCount:  1,
		Total:      5.00,
		TraceID:    "4bf92f3577b34da6a3ce929d0e0e4736",
		SpanID:     "00f067aa0ba902b7",
		RecordedAt: at,
	}
}

func TestSaveAndGetLatest(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, entry("O1", orderlog.EventCreated, "New", base)))
	require.NoError(t, repo.Save(ctx, entry("O1", orderlog.EventStatusChanged, "Preparing", base.Add(time.Minute))))

	latest, err := repo.GetLatest(ctx, "O1")
	require.NoError(t, err)
	assert.Equal(t, orderlog.EventStatusChanged, latest.Event)
	assert.Equal(t, "Preparing", latest.Status)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", latest.TraceID)
	assert.True(t, latest.RecordedAt.Equal(base.Add(time.Minute)))
}

func TestGetLatestUnknownOrder(t *testing.T) {
	repo := openTestRepo(t)
	_, err := repo.GetLatest(context.Background(), "nope")
	require.ErrorIs(t, err, orderlog.ErrNoEntries)
}

func TestListByOrderOldestFirst(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Save(ctx, entry("O1", orderlog.EventCreated, "New", base)))
	require.NoError(t, repo.Save(ctx, entry("O1", orderlog.EventItemsChanged, "New", base.Add(time.Minute))))
	require.NoError(t, repo.Save(ctx, entry("O2", orderlog.EventCreated, "New", base)))

	entries, err := repo.ListByOrder(ctx, "O1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, orderlog.EventCreated, entries[0].Event)
	assert.Equal(t, orderlog.EventItemsChanged, entries[1].Event)
}

func TestListByOrderEmpty(t *testing.T) {
	repo := openTestRepo(t)
	entries, err := repo.ListByOrder(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, entries)
}
