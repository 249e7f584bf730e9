package importjob

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var (
	ErrNotFound    = errors.New("import job not found")
	ErrNotQueued   = errors.New("import job is not queued")
	ErrJobTerminal = errors.New("import job already reached a terminal status")
)

type RowFilter struct {
	OnlyErrors bool
	Limit      int
	Offset     int
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Job, error)
	// MarkProcessing transitions queued -> processing and records the start
	// timestamp and total row count. Fails with ErrNotQueued on any other
	// current status.
	MarkProcessing(ctx context.Context, id uuid.UUID, totalRows int) error
	// Checkpoint persists the aggregate counters mid-run so observers can
	// poll progress. Losing a checkpoint loses no data.
	Checkpoint(ctx context.Context, id uuid.UUID, processed, success, errored int) error
	// MarkTerminal writes the final status, counters, completion timestamp
	// and error summary in one statement.
	MarkTerminal(ctx context.Context, id uuid.UUID, status Status, processed, success, errored int, summary string) error
	AddRowOutcome(ctx context.Context, outcome *RowOutcome) error
	ListRowOutcomes(ctx context.Context, jobID uuid.UUID, filter RowFilter) ([]*RowOutcome, error)
}
