package registry

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/client/models"
	"github.com/dmitrijs2005/evidencevault/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueTask_AtMostOnePerKind(t *testing.T) {
	r, _, _ := newRegistry(t)
	ctx := context.Background()
	e, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)

	first, err := r.EnqueueTask(ctx, e.ID, models.TaskUpload)
	require.NoError(t, err)
	assert.Equal(t, "00000000000000000001", first.ID, "Add already queued the upload")

	meta, err := r.EnqueueTask(ctx, e.ID, models.TaskStatusUpdate)
	require.NoError(t, err)
	assert.Equal(t, "00000000000000000002", meta.ID)

	again, err := r.EnqueueTask(ctx, e.ID, models.TaskStatusUpdate)
	require.NoError(t, err)
	assert.Equal(t, meta.ID, again.ID)

	tasks, err := r.Tasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestEnqueueTask_RequiresEntry(t *testing.T) {
	r, _, _ := newRegistry(t)
	_, err := r.EnqueueTask(context.Background(), "ghost", models.TaskUpload)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDueTasks_OrderAndEligibility(t *testing.T) {
	r, _, clk := newRegistry(t)
	ctx := context.Background()

	a, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)
	clk.Advance(time.Second)
	_, err = r.Add(ctx, bundleFor("2024-03-02"), AddOptions{})
	require.NoError(t, err)

	tasks, err := r.Tasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	_, err = r.RescheduleTask(ctx, tasks[0].ID, UploadResult{Error: "offline"}, clk.Now().Add(time.Minute))
	require.NoError(t, err)

	due, err := r.DueTasks(ctx, clk.Now())
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, tasks[1].ID, due[0].ID)

	due, err = r.DueTasks(ctx, clk.Now().Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, tasks[1].ID, due[0].ID, "earlier eligibility first")
	assert.Equal(t, a.ID, due[1].EvidenceID)
}

func TestTaskLifecycle_RetryThenComplete(t *testing.T) {
	r, _, clk := newRegistry(t)
	ctx := context.Background()
	e, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)
	tasks, err := r.Tasks(ctx)
	require.NoError(t, err)
	id := tasks[0].ID

	require.NoError(t, r.MarkUploading(ctx, e.ID))
	task, err := r.RescheduleTask(ctx, id, UploadResult{Error: "503"}, clk.Now().Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, task.Attempts)
	assert.Equal(t, "503", task.LastError)
	assert.Equal(t, models.TaskPending, task.Status)

	require.NoError(t, r.CompleteTask(ctx, id, UploadResult{RemoteID: "r-9", Hash: "h"}))

	_, err = r.GetTask(ctx, id)
	require.ErrorIs(t, err, common.ErrorNotFound)

	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadCompleted, got.Descriptor.Upload.Status)
	assert.Equal(t, 2, got.Descriptor.Upload.Attempts)
	assert.Equal(t, "r-9", got.Descriptor.Upload.RemoteID)

	// the index slot is free again
	next, err := r.EnqueueTask(ctx, e.ID, models.TaskUpload)
	require.NoError(t, err)
	assert.NotEqual(t, id, next.ID)
}

func TestFailPermanentlyAndManualRetry(t *testing.T) {
	r, _, _ := newRegistry(t)
	ctx := context.Background()
	e, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)
	tasks, err := r.Tasks(ctx)
	require.NoError(t, err)
	id := tasks[0].ID

	_, err = r.RetryFailedTask(ctx, id)
	require.ErrorIs(t, err, common.ErrInvalidTransition, "pending tasks cannot be retried manually")

	task, err := r.FailTaskPermanently(ctx, id, UploadResult{Error: "gone"})
	require.NoError(t, err)
	assert.Equal(t, models.TaskFailed, task.Status)

	failed, err := r.FailedTasks(ctx)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	pending, err := r.PendingTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadFailed, got.Descriptor.Upload.Status)

	task, err = r.RetryFailedTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)
	assert.Zero(t, task.Attempts)

	got, err = r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadPending, got.Descriptor.Upload.Status)
	assert.Equal(t, 1, got.Descriptor.Upload.Attempts, "entry keeps its attempt history")
}

func TestNonUploadTasksLeaveEntryStatus(t *testing.T) {
	r, _, _ := newRegistry(t)
	ctx := context.Background()
	e, err := r.Add(ctx, bundleFor("2024-03-01"), AddOptions{})
	require.NoError(t, err)

	task, err := r.EnqueueTask(ctx, e.ID, models.TaskStatusUpdate)
	require.NoError(t, err)
	require.NoError(t, r.CompleteTask(ctx, task.ID, UploadResult{}))

	got, err := r.GetByID(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, models.UploadPending, got.Descriptor.Upload.Status)
	assert.Zero(t, got.Descriptor.Upload.Attempts)
}
