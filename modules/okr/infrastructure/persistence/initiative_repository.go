package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/initiative"
	"github.com/stratix-io/stratix-platform/modules/okr/infrastructure/persistence/models"
	"github.com/stratix-io/stratix-platform/pkg/composables"
	"github.com/stratix-io/stratix-platform/pkg/repo"
)

const (
	initiativeFindQuery = `
		SELECT i.id, i.tenant_id, i.area_id, i.title, i.description, i.status, i.priority,
			i.progress::text, i.start_date, i.due_date, i.created_at, i.updated_at
		FROM initiatives i`

	initiativeInsertQuery = `
		INSERT INTO initiatives (
			id, tenant_id, area_id, title, description, status, priority,
			progress, start_date, due_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::numeric, $9, $10, $11, $12)`

	initiativeUpdateQuery = `
		UPDATE initiatives
		SET description = $1, status = $2, priority = $3, progress = $4::numeric,
			start_date = $5, due_date = $6, updated_at = $7
		WHERE tenant_id = $8 AND id = $9`

	initiativeLinkQuery = `
		INSERT INTO initiative_objectives (initiative_id, objective_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
)

type PgInitiativeRepository struct{}

func NewInitiativeRepository() initiative.Repository {
	return &PgInitiativeRepository{}
}

func (r *PgInitiativeRepository) FindByTitleForObjective(ctx context.Context, title string, objectiveID uuid.UUID) (*initiative.Initiative, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := repo.Join(
		initiativeFindQuery,
		"INNER JOIN initiative_objectives io ON io.initiative_id = i.id",
		"WHERE i.tenant_id = $1 AND io.objective_id = $2 AND LOWER(i.title) = LOWER($3)",
	)
	initiatives, err := r.queryInitiatives(ctx, query, tenantID.String(), objectiveID.String(), title)
	if err != nil {
		return nil, err
	}
	if len(initiatives) == 0 {
		return nil, initiative.ErrNotFound
	}
	return initiatives[0], nil
}

func (r *PgInitiativeRepository) Create(ctx context.Context, entity *initiative.Initiative) (*initiative.Initiative, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	dbRow := toDBInitiative(entity)
	if _, err := tx.Exec(
		ctx,
		initiativeInsertQuery,
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
		return nil, errors.Wrap(err, "inserting initiative")
	}
	return entity, nil
}

func (r *PgInitiativeRepository) Update(ctx context.Context, entity *initiative.Initiative) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	dbRow := toDBInitiative(entity)
	tag, err := tx.Exec(
		ctx,
		initiativeUpdateQuery,
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
		return errors.Wrap(err, "updating initiative")
	}
	if tag.RowsAffected() == 0 {
		return initiative.ErrNotFound
	}
	return nil
}

func (r *PgInitiativeRepository) Link(ctx context.Context, initiativeID, objectiveID uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, initiativeLinkQuery, initiativeID.String(), objectiveID.String()); err != nil {
		return errors.Wrap(err, "linking initiative to objective")
	}
	return nil
}

func (r *PgInitiativeRepository) queryInitiatives(ctx context.Context, query string, args ...any) ([]*initiative.Initiative, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying initiatives")
	}
	defer rows.Close()

	out := make([]*initiative.Initiative, 0)
	for rows.Next() {
		var dbRow models.Initiative
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
			return nil, errors.Wrap(err, "scanning initiative")
		}
		entity, err := toDomainInitiative(&dbRow)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}
