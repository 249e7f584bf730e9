package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/modules/okr/importer/tabular"
)

func queuedJob(repo *memImportRepo) uuid.UUID {
	id := uuid.New()
	repo.jobs[id] = &memJobState{
		tenantID:    uuid.New(),
		userID:      uuid.New(),
		areaID:      uuid.New(),
		sourcePath:  "imports/test.csv",
		contentType: tabular.ContentTypeCSV,
		status:      importjob.StatusQueued,
	}
	return id
}

func successResult(n int) RowResult {
	id := uuid.New()
	return RowResult{
		RowNumber:   n,
		EntityType:  importjob.EntityInitiative,
		EntityTitle: fmt.Sprintf("Initiative %d", n),
		EntityID:    &id,
		Action:      importjob.ActionCreate,
	}
}

func errorResult(n int) RowResult {
	return RowResult{
		RowNumber:   n,
		EntityType:  importjob.EntityInitiative,
		EntityTitle: fmt.Sprintf("Initiative %d", n),
		Err:         ErrMissingField.WithDetails("row %d: initiative_title", n),
	}
}

func TestTrackerPartialAccounting(t *testing.T) {
	repo := newMemImportRepo()
	jobID := queuedJob(repo)
	tracker := NewTracker(repo, jobID, 10, testLogger().WithField("test", true))
	ctx := context.Background()

	require.NoError(t, tracker.Begin(ctx))
	for n := 1; n <= 10; n++ {
		res := successResult(n)
		if n == 3 || n == 7 {
			res = errorResult(n)
		}
		require.NoError(t, tracker.RecordRow(ctx, res, tabular.Row{"objective_title": "O"}))
	}

	status, err := tracker.Complete(ctx)
	require.NoError(t, err)
	assert.Equal(t, importjob.StatusPartial, status)

	st := repo.jobs[jobID]
	assert.Equal(t, 10, st.processed)
	assert.Equal(t, 8, st.success)
	assert.Equal(t, 2, st.errored)

	failed, err := repo.ListRowOutcomes(ctx, jobID, importjob.RowFilter{OnlyErrors: true})
	require.NoError(t, err)
	require.Len(t, failed, 2)
	for _, o := range failed {
		assert.Equal(t, "IMPORT_MISSING_FIELD", o.ErrorCode)
		assert.NotEmpty(t, o.Payload)
	}
}

func TestTrackerCompletedWhenNoErrors(t *testing.T) {
	repo := newMemImportRepo()
	jobID := queuedJob(repo)
	tracker := NewTracker(repo, jobID, 2, testLogger().WithField("test", true))
	ctx := context.Background()

	require.NoError(t, tracker.Begin(ctx))
	require.NoError(t, tracker.RecordRow(ctx, successResult(1), nil))
	require.NoError(t, tracker.RecordRow(ctx, successResult(2), nil))

	status, err := tracker.Complete(ctx)
	require.NoError(t, err)
	assert.Equal(t, importjob.StatusCompleted, status)
	assert.Empty(t, repo.jobs[jobID].summary)

	// Successful outcomes do not retain the raw payload.
	outcomes, err := repo.ListRowOutcomes(ctx, jobID, importjob.RowFilter{})
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Nil(t, outcomes[0].Payload)
}

func TestTrackerCheckpointCadence(t *testing.T) {
	repo := newMemImportRepo()
	jobID := queuedJob(repo)
	tracker := NewTracker(repo, jobID, 25, testLogger().WithField("test", true))
	ctx := context.Background()

	require.NoError(t, tracker.Begin(ctx))
	for n := 1; n <= 25; n++ {
		require.NoError(t, tracker.RecordRow(ctx, successResult(n), nil))
	}

	// Rows 10 and 20 by cadence, row 25 because it is the last.
	assert.Equal(t, 3, repo.checkpointCalls)
	assert.Equal(t, 25, repo.jobs[jobID].processed)
}

func TestTrackerFail(t *testing.T) {
	repo := newMemImportRepo()
	jobID := queuedJob(repo)
	tracker := NewTracker(repo, jobID, 5, testLogger().WithField("test", true))
	ctx := context.Background()

	require.NoError(t, tracker.Begin(ctx))
	require.NoError(t, tracker.RecordRow(ctx, successResult(1), nil))
	require.NoError(t, tracker.Fail(ctx, "datastore unreachable"))

	st := repo.jobs[jobID]
	assert.Equal(t, importjob.StatusFailed, st.status)
	assert.Equal(t, "datastore unreachable", st.summary)
	assert.Equal(t, 1, st.processed)
}

func TestTrackerTerminalIsFinal(t *testing.T) {
	repo := newMemImportRepo()
	jobID := queuedJob(repo)
	tracker := NewTracker(repo, jobID, 1, testLogger().WithField("test", true))
	ctx := context.Background()

	require.NoError(t, tracker.Begin(ctx))
	require.NoError(t, tracker.RecordRow(ctx, successResult(1), nil))

	_, err := tracker.Complete(ctx)
	require.NoError(t, err)

	assert.ErrorIs(t, tracker.Fail(ctx, "too late"), importjob.ErrJobTerminal)
}
