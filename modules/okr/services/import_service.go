package services

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/activity"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/initiative"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/objective"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/area"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/matching"
	"github.com/stratix-io/stratix-platform/modules/okr/importer/tabular"
	"github.com/stratix-io/stratix-platform/pkg/eventbus"
	"github.com/stratix-io/stratix-platform/pkg/objectstore"
)

// ImportService drives one queued import job through the full pipeline:
// download, decode, per-row reconciliation, progress tracking, terminal
// status. Rows run strictly in source order on a single worker; concurrency
// across jobs comes from running Run for different job IDs independently.
type ImportService struct {
	jobs        importjob.Repository
	areas       area.Repository
	objectives  objective.Repository
	initiatives initiative.Repository
	activities  activity.Repository
	users       UserDirectory
	store       objectstore.Store
	matcher     *matching.Matcher
	bus         eventbus.EventBus
	logger      *logrus.Logger
}

func NewImportService(
	jobs importjob.Repository,
	areas area.Repository,
	objectives objective.Repository,
	initiatives initiative.Repository,
	activities activity.Repository,
	users UserDirectory,
	store objectstore.Store,
	matcher *matching.Matcher,
	bus eventbus.EventBus,
	logger *logrus.Logger,
) *ImportService {
	return &ImportService{
		jobs:        jobs,
		areas:       areas,
		objectives:  objectives,
		initiatives: initiatives,
		activities:  activities,
		users:       users,
		store:       store,
		matcher:     matcher,
		bus:         bus,
		logger:      logger,
	}
}

// Run processes the job to a terminal state and returns the final job
// record. The job must be queued. Row-level failures are recorded and do
// not abort the run; decode failures, cancellation and outcome-write
// failures are job-fatal.
func (s *ImportService) Run(ctx context.Context, jobID uuid.UUID) (*importjob.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status() != importjob.StatusQueued {
		return nil, importjob.ErrNotQueued
	}

	log := s.logger.WithFields(logrus.Fields{
		"job_id":    job.ID(),
		"tenant_id": job.TenantID(),
		"source":    job.SourcePath(),
	})

	data, err := s.store.Download(ctx, job.SourcePath())
	if err != nil {
		return s.failBeforeRows(ctx, jobID, log, fmt.Sprintf("downloading source: %v", err))
	}

	src, err := tabular.Open(data, job.ContentType())
	if err != nil {
		return s.failBeforeRows(ctx, jobID, log, fmt.Sprintf("decoding source: %v", err))
	}

	total, err := countRows(src)
	if err != nil {
		return s.failBeforeRows(ctx, jobID, log, fmt.Sprintf("counting rows: %v", err))
	}

	tracker := NewTracker(s.jobs, jobID, total, log)
	if err := tracker.Begin(ctx); err != nil {
		return nil, err
	}
	log.WithField("total_rows", total).Info("import started")

	candidates, err := s.areaCandidates(ctx)
	if err != nil {
		if fErr := tracker.Fail(ctx, fmt.Sprintf("loading areas: %v", err)); fErr != nil {
			log.WithError(fErr).Error("writing failed status")
		}
		return s.finish(ctx, jobID, log)
	}

	rec := NewReconciler(
		s.objectives,
		s.initiatives,
		s.activities,
		s.users,
		s.matcher,
		job.TenantID(),
		job.AreaID(),
		candidates,
		log,
	)

	it, err := src.Rows()
	if err != nil {
		if fErr := tracker.Fail(ctx, fmt.Sprintf("reading rows: %v", err)); fErr != nil {
			log.WithError(fErr).Error("writing failed status")
		}
		return s.finish(ctx, jobID, log)
	}

	for {
		if ctx.Err() != nil {
			summary := ErrCancelled.WithDetails("%v", ctx.Err()).Error()
			// Terminal write runs on a fresh context: the job context is
			// already dead.
			if fErr := tracker.Fail(context.WithoutCancel(ctx), summary); fErr != nil {
				log.WithError(fErr).Error("writing cancelled status")
			}
			return s.finish(context.WithoutCancel(ctx), jobID, log)
		}

		row, number, ok, err := it.Next()
		if err != nil {
			if fErr := tracker.Fail(ctx, fmt.Sprintf("reading row: %v", err)); fErr != nil {
				log.WithError(fErr).Error("writing failed status")
			}
			return s.finish(ctx, jobID, log)
		}
		if !ok {
			break
		}

		res := rec.ProcessRow(ctx, number, row)
		if res.Err != nil {
			log.WithFields(logrus.Fields{
				"row":   number,
				"error": res.Err,
			}).Warn("row failed")
		}
		if err := tracker.RecordRow(ctx, res, row); err != nil {
			if fErr := tracker.Fail(ctx, fmt.Sprintf("persisting outcomes: %v", err)); fErr != nil {
				log.WithError(fErr).Error("writing failed status")
			}
			return s.finish(ctx, jobID, log)
		}
	}

	status, err := tracker.Complete(ctx)
	if err != nil {
		return nil, err
	}
	processed, success, errored := tracker.Counters()
	log.WithFields(logrus.Fields{
		"status":    status,
		"processed": processed,
		"success":   success,
		"errors":    errored,
	}).Info("import finished")
	return s.finish(ctx, jobID, log)
}

// failBeforeRows handles job-fatal conditions hit before the first row. The
// job still transitions queued -> processing -> failed so the state machine
// never skips a state.
func (s *ImportService) failBeforeRows(ctx context.Context, jobID uuid.UUID, log *logrus.Entry, summary string) (*importjob.Job, error) {
	if err := s.jobs.MarkProcessing(ctx, jobID, 0); err != nil {
		return nil, err
	}
	if err := s.jobs.MarkTerminal(ctx, jobID, importjob.StatusFailed, 0, 0, 0, summary); err != nil {
		return nil, err
	}
	log.WithField("summary", summary).Error("import failed before processing rows")
	return s.finish(ctx, jobID, log)
}

// finish reloads the terminal job record, bumps the job counter and
// publishes the completion event.
func (s *ImportService) finish(ctx context.Context, jobID uuid.UUID, log *logrus.Entry) (*importjob.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, errors.Wrap(err, "reloading job")
	}

	importJobsTotal.WithLabelValues(string(job.Status())).Inc()
	s.bus.Publish(ImportCompletedEvent{
		JobID:       job.ID(),
		TenantID:    job.TenantID(),
		Status:      job.Status(),
		TotalRows:   job.TotalRows(),
		SuccessRows: job.SuccessRows(),
		ErrorRows:   job.ErrorRows(),
	})
	return job, nil
}

func (s *ImportService) areaCandidates(ctx context.Context) ([]matching.Candidate, error) {
	areas, err := s.areas.GetAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading area candidates")
	}
	out := make([]matching.Candidate, 0, len(areas))
	for _, a := range areas {
		out = append(out, matching.Candidate{ID: a.ID(), Name: a.Name()})
	}
	return out, nil
}

func countRows(src tabular.Source) (int, error) {
	it, err := src.Rows()
	if err != nil {
		return 0, err
	}
	total := 0
	for {
		_, _, ok, err := it.Next()
		if err != nil {
			return 0, err
		}
		if !ok {
			return total, nil
		}
		total++
	}
}
