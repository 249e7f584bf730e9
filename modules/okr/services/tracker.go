package services

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/modules/okr/importer/tabular"
	"github.com/stratix-io/stratix-platform/pkg/serrors"
)

const checkpointEvery = 10

// Tracker owns the lifecycle of one job run: it persists every row outcome,
// keeps the in-memory counters, checkpoints them periodically and writes the
// terminal status.
type Tracker struct {
	jobs   importjob.Repository
	logger *logrus.Entry

	jobID     uuid.UUID
	totalRows int

	processed int
	success   int
	errored   int
}

func NewTracker(jobs importjob.Repository, jobID uuid.UUID, totalRows int, logger *logrus.Entry) *Tracker {
	return &Tracker{
		jobs:      jobs,
		logger:    logger,
		jobID:     jobID,
		totalRows: totalRows,
	}
}

// Begin transitions the job to processing and records the total row count.
func (t *Tracker) Begin(ctx context.Context) error {
	return t.jobs.MarkProcessing(ctx, t.jobID, t.totalRows)
}

// RecordRow persists the row outcome and updates the counters. The raw
// payload is retained only on error. A checkpoint happens every
// checkpointEvery rows and on the last row; a failed checkpoint is logged
// and otherwise ignored, it loses no data.
func (t *Tracker) RecordRow(ctx context.Context, res RowResult, payload tabular.Row) error {
	outcome := buildOutcome(t.jobID, res, payload)
	if err := t.jobs.AddRowOutcome(ctx, outcome); err != nil {
		return errors.Wrap(err, "recording row outcome")
	}

	t.processed++
	if res.Err != nil {
		t.errored++
		importRowsTotal.WithLabelValues(string(importjob.RowError)).Inc()
	} else {
		t.success++
		importRowsTotal.WithLabelValues(string(importjob.RowSuccess)).Inc()
	}

	if t.processed%checkpointEvery == 0 || t.processed == t.totalRows {
		if err := t.jobs.Checkpoint(ctx, t.jobID, t.processed, t.success, t.errored); err != nil {
			t.logger.WithError(err).Warn("checkpoint write failed")
		}
	}
	return nil
}

// Complete writes the terminal status after a fully consumed row sequence:
// completed when no row errored, partial otherwise.
func (t *Tracker) Complete(ctx context.Context) (importjob.Status, error) {
	status := importjob.StatusCompleted
	summary := ""
	if t.errored > 0 {
		status = importjob.StatusPartial
		summary = fmt.Sprintf("%d of %d rows failed", t.errored, t.processed)
	}
	if err := t.jobs.MarkTerminal(ctx, t.jobID, status, t.processed, t.success, t.errored, summary); err != nil {
		return "", err
	}
	return status, nil
}

// Fail writes the failed terminal status with a summary, keeping whatever
// counters were reached. Used for job-fatal conditions.
func (t *Tracker) Fail(ctx context.Context, summary string) error {
	return t.jobs.MarkTerminal(ctx, t.jobID, importjob.StatusFailed, t.processed, t.success, t.errored, summary)
}

func (t *Tracker) Counters() (processed, success, errored int) {
	return t.processed, t.success, t.errored
}

func buildOutcome(jobID uuid.UUID, res RowResult, payload tabular.Row) *importjob.RowOutcome {
	outcome := &importjob.RowOutcome{
		JobID:       jobID,
		RowNumber:   res.RowNumber,
		EntityType:  res.EntityType,
		EntityTitle: res.EntityTitle,
		EntityID:    res.EntityID,
		Action:      res.Action,
		Status:      importjob.RowSuccess,
	}
	if res.Err != nil {
		outcome.Status = importjob.RowError
		outcome.ErrorCode = serrors.Code(res.Err)
		outcome.ErrorMessage = res.Err.Error()
		outcome.Payload = payload
	}
	return outcome
}
