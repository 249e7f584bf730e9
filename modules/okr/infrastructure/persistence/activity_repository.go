package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/activity"
	"github.com/stratix-io/stratix-platform/modules/okr/infrastructure/persistence/models"
	"github.com/stratix-io/stratix-platform/pkg/composables"
	"github.com/stratix-io/stratix-platform/pkg/repo"
)

const (
	activityFindQuery = `
		SELECT id, tenant_id, initiative_id, title, description, status, priority,
			assignee_id, due_date, completed, created_at, updated_at
		FROM activities`

	activityInsertQuery = `
		INSERT INTO activities (
			id, tenant_id, initiative_id, title, description, status, priority,
			assignee_id, due_date, completed, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	activityUpdateQuery = `
		UPDATE activities
		SET description = $1, status = $2, priority = $3, assignee_id = $4,
			due_date = $5, completed = $6, updated_at = $7
		WHERE tenant_id = $8 AND id = $9`
)

type PgActivityRepository struct{}

func NewActivityRepository() activity.Repository {
	return &PgActivityRepository{}
}

func (r *PgActivityRepository) FindByTitleForInitiative(ctx context.Context, title string, initiativeID uuid.UUID) (*activity.Activity, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := repo.Join(
		activityFindQuery,
		"WHERE tenant_id = $1 AND initiative_id = $2 AND LOWER(title) = LOWER($3)",
	)
	activities, err := r.queryActivities(ctx, query, tenantID.String(), initiativeID.String(), title)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, activity.ErrNotFound
	}
	return activities[0], nil
}

func (r *PgActivityRepository) Create(ctx context.Context, entity *activity.Activity) (*activity.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	dbRow := toDBActivity(entity)
	if _, err := tx.Exec(
		ctx,
		activityInsertQuery,
		dbRow.ID,
		dbRow.TenantID,
		dbRow.InitiativeID,
		dbRow.Title,
		dbRow.Description,
		dbRow.Status,
		dbRow.Priority,
		dbRow.AssigneeID,
		dbRow.DueDate,
		dbRow.Completed,
		dbRow.CreatedAt,
		dbRow.UpdatedAt,
	); err != nil {
		return nil, errors.Wrap(err, "inserting activity")
	}
	return entity, nil
}

func (r *PgActivityRepository) Update(ctx context.Context, entity *activity.Activity) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBActivity(entity)
	tag, err := tx.Exec(
		ctx,
		activityUpdateQuery,
		dbRow.Description,
		dbRow.Status,
		dbRow.Priority,
		dbRow.AssigneeID,
		dbRow.DueDate,
		dbRow.Completed,
		dbRow.UpdatedAt,
		dbRow.TenantID,
		dbRow.ID,
	)
	if err != nil {
		return errors.Wrap(err, "updating activity")
	}
	if tag.RowsAffected() == 0 {
		return activity.ErrNotFound
	}
	return nil
}

func (r *PgActivityRepository) queryActivities(ctx context.Context, query string, args ...any) ([]*activity.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	defer rows.Close()

	out := make([]*activity.Activity, 0)
	for rows.Next() {
		var dbRow models.Activity
		if err := rows.Scan(
			&dbRow.ID,
			&dbRow.TenantID,
			&dbRow.InitiativeID,
			&dbRow.Title,
			&dbRow.Description,
			&dbRow.Status,
			&dbRow.Priority,
			&dbRow.AssigneeID,
			&dbRow.DueDate,
			&dbRow.Completed,
			&dbRow.CreatedAt,
			&dbRow.UpdatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scanning activity")
		}
		entity, err := toDomainActivity(&dbRow)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}
