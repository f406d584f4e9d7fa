package review

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/client/storage"
	"github.com/dmitrijs2005/evidencevault/internal/clock"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_EnqueueListDismiss(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	now := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
	s := NewStore(kv, clock.NewFake(now))

	verdict := models.FilterResult{Approved: false, Score: 0.2, Reasoning: "blocked term"}
	a, err := s.Enqueue(ctx, models.EvidenceBundle{TargetDate: "2024-03-03", Messages: []models.Message{{Text: "x"}}}, verdict, "2024-03-03")
	require.NoError(t, err)
	_, err = s.Enqueue(ctx, models.EvidenceBundle{TargetDate: "2024-03-01"}, verdict, "2024-03-01")
	require.NoError(t, err)

	assert.Equal(t, now, a.QueuedAt)
	assert.Equal(t, "blocked term", a.Filter.Reasoning)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2024-03-01", all[0].TargetDate)

	day, err := s.List(ctx, "2024-03-03")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "x", day[0].Bundle.Messages[0].Text)

	require.NoError(t, s.Dismiss(ctx, a.ID))
	require.ErrorIs(t, s.Dismiss(ctx, a.ID), common.ErrorNotFound)

	// the review queue never touches the registry or the sync queue
	assert.Zero(t, kv.Len(storage.BucketRegistry))
	assert.Zero(t, kv.Len(storage.BucketSyncQueue))
}
