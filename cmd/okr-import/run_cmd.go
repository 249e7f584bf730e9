package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/matching"
	"github.com/stratix-io/stratix-platform/modules/okr/infrastructure/persistence"
	"github.com/stratix-io/stratix-platform/modules/okr/services"
	"github.com/stratix-io/stratix-platform/pkg/composables"
	"github.com/stratix-io/stratix-platform/pkg/configuration"
	"github.com/stratix-io/stratix-platform/pkg/eventbus"
	"github.com/stratix-io/stratix-platform/pkg/objectstore"
)

type runOptions struct {
	jobID    string
	tenantID string
}

type runSummary struct {
	JobID        string `json:"job_id"`
	Status       string `json:"status"`
	TotalRows    int    `json:"total_rows"`
	SuccessRows  int    `json:"success_rows"`
	ErrorRows    int    `json:"error_rows"`
	ErrorSummary string `json:"error_summary,omitempty"`
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process one queued import job",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.jobID, "job", "", "Import job ID (required)")
	cmd.Flags().StringVar(&opts.tenantID, "tenant", "", "Tenant ID owning the job (required)")
	_ = cmd.MarkFlagRequired("job")
	_ = cmd.MarkFlagRequired("tenant")
	return cmd
}

func runJob(ctx context.Context, opts runOptions) error {
	jobID, err := uuid.Parse(opts.jobID)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("invalid --job: %w", err))
	}
	tenantID, err := uuid.Parse(opts.tenantID)
	if err != nil {
		return withCode(exitUsage, fmt.Errorf("invalid --tenant: %w", err))
	}

	cfg := configuration.Use()
	pool, err := pgxpool.New(ctx, cfg.Database.Opts)
	if err != nil {
		return withCode(exitDB, fmt.Errorf("connecting to database: %w", err))
	}
	defer pool.Close()

	ctx = composables.WithPool(ctx, pool)
	ctx = composables.WithTenantID(ctx, tenantID)

	logger := cfg.Logger()
	svc := services.NewImportService(
		persistence.NewImportRepository(),
		persistence.NewAreaRepository(),
		persistence.NewObjectiveRepository(),
		persistence.NewInitiativeRepository(),
		persistence.NewActivityRepository(),
		persistence.NewUserDirectory(),
		objectstore.NewLocalStore(cfg.UploadsPath),
		matching.NewMatcher(),
		eventbus.NewEventPublisher(logger),
		logger,
	)

	job, err := svc.Run(ctx, jobID)
	switch {
	case errors.Is(err, importjob.ErrNotFound):
		return withCode(exitValidation, fmt.Errorf("job %s not found for tenant %s", jobID, tenantID))
	case errors.Is(err, importjob.ErrNotQueued):
		return withCode(exitValidation, fmt.Errorf("job %s is not queued", jobID))
	case err != nil:
		return withCode(exitDBWrite, fmt.Errorf("running import: %w", err))
	}

	return writeJSONLine(runSummary{
		JobID:        job.ID().String(),
		Status:       string(job.Status()),
		TotalRows:    job.TotalRows(),
		SuccessRows:  job.SuccessRows(),
		ErrorRows:    job.ErrorRows(),
		ErrorSummary: job.ErrorSummary(),
	})
}
