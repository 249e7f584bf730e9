package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/modules/okr/infrastructure/persistence/models"
	"github.com/stratix-io/stratix-platform/pkg/composables"
	"github.com/stratix-io/stratix-platform/pkg/repo"
)

const (
	importJobFindQuery = `
		SELECT id, tenant_id, user_id, area_id, source_path, content_type, status,
			total_rows, processed_rows, success_rows, error_rows, error_summary,
			started_at, completed_at, created_at
		FROM import_jobs`

	importJobMarkProcessingQuery = `
		UPDATE import_jobs
		SET status = 'processing', total_rows = $1, started_at = NOW()
		WHERE tenant_id = $2 AND id = $3 AND status = 'queued'`

	importJobCheckpointQuery = `
		UPDATE import_jobs
		SET processed_rows = $1, success_rows = $2, error_rows = $3
		WHERE tenant_id = $4 AND id = $5 AND status = 'processing'`

	importJobMarkTerminalQuery = `
		UPDATE import_jobs
		SET status = $1, processed_rows = $2, success_rows = $3, error_rows = $4,
			error_summary = $5, completed_at = NOW()
		WHERE tenant_id = $6 AND id = $7 AND status = 'processing'`

	rowOutcomeInsertQuery = `
		INSERT INTO import_row_outcomes (
			job_id, row_number, entity_type, entity_title, entity_id,
			action, status, error_code, error_message, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	rowOutcomeFindQuery = `
		SELECT o.job_id, o.row_number, o.entity_type, o.entity_title, o.entity_id,
			o.action, o.status, o.error_code, o.error_message, o.payload, o.created_at
		FROM import_row_outcomes o
		INNER JOIN import_jobs j ON j.id = o.job_id`
)

type PgImportRepository struct{}

func NewImportRepository() importjob.Repository {
	return &PgImportRepository{}
}

func (r *PgImportRepository) GetByID(ctx context.Context, id uuid.UUID) (*importjob.Job, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := repo.Join(importJobFindQuery, "WHERE tenant_id = $1 AND id = $2")
	rows, err := tx.Query(ctx, query, tenantID.String(), id.String())
	if err != nil {
		return nil, errors.Wrap(err, "querying import job")
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, errors.Wrap(err, "querying import job")
		}
		return nil, importjob.ErrNotFound
	}

	var dbRow models.ImportJob
	if err := rows.Scan(
		&dbRow.ID,
		&dbRow.TenantID,
		&dbRow.UserID,
		&dbRow.AreaID,
		&dbRow.SourcePath,
		&dbRow.ContentType,
		&dbRow.Status,
		&dbRow.TotalRows,
		&dbRow.ProcessedRows,
		&dbRow.SuccessRows,
		&dbRow.ErrorRows,
		&dbRow.ErrorSummary,
		&dbRow.StartedAt,
		&dbRow.CompletedAt,
		&dbRow.CreatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "scanning import job")
	}
	return toDomainImportJob(&dbRow)
}

func (r *PgImportRepository) MarkProcessing(ctx context.Context, id uuid.UUID, totalRows int) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, importJobMarkProcessingQuery, totalRows, tenantID.String(), id.String())
	if err != nil {
		return errors.Wrap(err, "marking import job processing")
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return importjob.ErrNotQueued
	}
	return nil
}

func (r *PgImportRepository) Checkpoint(ctx context.Context, id uuid.UUID, processed, success, errored int) error {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		ctx,
		importJobCheckpointQuery,
		processed,
		success,
		errored,
		tenantID.String(),
		id.String(),
	); err != nil {
		return errors.Wrap(err, "checkpointing import job")
	}
	return nil
}

func (r *PgImportRepository) MarkTerminal(ctx context.Context, id uuid.UUID, status importjob.Status, processed, success, errored int, summary string) error {
	if !status.Terminal() {
		return errors.Errorf("status %q is not terminal", status)
	}
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(
		ctx,
		importJobMarkTerminalQuery,
		string(status),
		processed,
		success,
		errored,
		summary,
		tenantID.String(),
		id.String(),
	)
	if err != nil {
		return errors.Wrap(err, "finalizing import job")
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return importjob.ErrJobTerminal
	}
	return nil
}

func (r *PgImportRepository) AddRowOutcome(ctx context.Context, outcome *importjob.RowOutcome) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow, err := toDBRowOutcome(outcome)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(
		ctx,
		rowOutcomeInsertQuery,
		dbRow.JobID,
		dbRow.RowNumber,
		dbRow.EntityType,
		dbRow.EntityTitle,
		dbRow.EntityID,
		dbRow.Action,
		dbRow.Status,
		dbRow.ErrorCode,
		dbRow.ErrorMessage,
		dbRow.Payload,
		dbRow.CreatedAt,
	); err != nil {
		return errors.Wrap(err, "inserting row outcome")
	}
	return nil
}

func (r *PgImportRepository) ListRowOutcomes(ctx context.Context, jobID uuid.UUID, filter importjob.RowFilter) ([]*importjob.RowOutcome, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	conds := []string{"j.tenant_id = $1", "o.job_id = $2"}
	args := []any{tenantID.String(), jobID.String()}
	if filter.OnlyErrors {
		conds = append(conds, "o.status = 'error'")
	}
	query := repo.Join(
		rowOutcomeFindQuery,
		repo.JoinWhere(conds...),
		"ORDER BY o.row_number",
		repo.FormatLimitOffset(filter.Limit, filter.Offset),
	)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying row outcomes")
	}
	defer rows.Close()

	out := make([]*importjob.RowOutcome, 0)
	for rows.Next() {
		var dbRow models.ImportRowOutcome
		if err := rows.Scan(
			&dbRow.JobID,
			&dbRow.RowNumber,
			&dbRow.EntityType,
			&dbRow.EntityTitle,
			&dbRow.EntityID,
			&dbRow.Action,
			&dbRow.Status,
			&dbRow.ErrorCode,
			&dbRow.ErrorMessage,
			&dbRow.Payload,
			&dbRow.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning row outcome")
		}
		outcome, err := toDomainRowOutcome(&dbRow)
		if err != nil {
			return nil, err
		}
		out = append(out, outcome)
	}
	return out, rows.Err()
}
