package persistence

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/objective"
	"github.com/stratix-io/stratix-platform/modules/okr/infrastructure/persistence/models"
	"github.com/stratix-io/stratix-platform/pkg/composables"
	"github.com/stratix-io/stratix-platform/pkg/repo"
)

const (
	objectiveFindQuery = `
		SELECT id, tenant_id, area_id, title, description, status, priority,
			progress::text, start_date, due_date, created_at, updated_at
		FROM objectives`

	objectiveInsertQuery = `
		INSERT INTO objectives (
			id, tenant_id, area_id, title, description, status, priority,
			progress, start_date, due_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11, $12)`

	objectiveUpdateQuery = `
		UPDATE objectives
		SET description = $1, status = $2, priority = $3, progress = $4::numeric,
			start_date = $5, due_date = $6, updated_at = $7
		WHERE tenant_id = $8 AND id = $9`
)

type PgObjectiveRepository struct{}

func NewObjectiveRepository() objective.Repository {
	return &PgObjectiveRepository{}
}

func (r *PgObjectiveRepository) FindByTitle(ctx context.Context, title string) (*objective.Objective, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := repo.Join(objectiveFindQuery, "WHERE tenant_id = $1 AND LOWER(title) = LOWER($2)")
	objectives, err := r.queryObjectives(ctx, query, tenantID.String(), title)
	if err != nil {
		return nil, err
	}
	if len(objectives) == 0 {
		return nil, objective.ErrNotFound
	}
	return objectives[0], nil
}

func (r *PgObjectiveRepository) Create(ctx context.Context, entity *objective.Objective) (*objective.Objective, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	dbRow := toDBObjective(entity)
	if _, err := tx.Exec(
		ctx,
		objectiveInsertQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.AreaID,
		dbRow.Title,
		dbRow.Description,
		dbRow.Status,
		dbRow.Priority,
		dbRow.Progress,
		dbRow.StartDate,
		dbRow.DueDate,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "inserting objective")
	}
	return entity, nil
}

func (r *PgObjectiveRepository) Update(ctx context.Context, entity *objective.Objective) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBObjective(entity)
	tag, err := tx.Exec(
		ctx,
		objectiveUpdateQuery,
		dbRow.Description,
		dbRow.Status,
		dbRow.Priority,
		dbRow.Progress,
		dbRow.StartDate,
		dbRow.DueDate,
		dbRow.UpdatedAt,
		dbRow.TenantID,
		dbRow.ID,
	)
	if err != nil {
		return errors.Wrap(err, "updating objective")
	}
	if tag.RowsAffected() == 0 {
		return objective.ErrNotFound
	}
	return nil
}

func (r *PgObjectiveRepository) queryObjectives(ctx context.Context, query string, args ...any) ([]*objective.Objective, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying objectives")
	}
	defer rows.Close()

	out := make([]*objective.Objective, 0)
	for rows.Next() {
		var dbRow models.Objective
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.AreaID,
			&dbRow.Title,
			&dbRow.Description,
			&dbRow.Status,
			&dbRow.Priority,
			&dbRow.Progress,
			&dbRow.StartDate,
			&dbRow.DueDate,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning objective")
		}
		entity, err := toDomainObjective(&dbRow)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}
