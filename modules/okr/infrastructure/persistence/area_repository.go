package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/area"
	"github.com/stratix-io/stratix-platform/modules/okr/infrastructure/persistence/models"
	"github.com/stratix-io/stratix-platform/pkg/composables"
	"github.com/stratix-io/stratix-platform/pkg/repo"
)

const (
	areaFindQuery = `SELECT id, tenant_id, name, created_at FROM areas`
)

type PgAreaRepository struct{}

func NewAreaRepository() area.Repository {
	return &PgAreaRepository{}
}

func (r *PgAreaRepository) GetAll(ctx context.Context) ([]*area.Area, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := repo.Join(areaFindQuery, "WHERE tenant_id = $1 ORDER BY name")
	return r.queryAreas(ctx, query, tenantID.String())
}

func (r *PgAreaRepository) GetByID(ctx context.Context, id uuid.UUID) (*area.Area, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return nil, err
	}
	query := repo.Join(areaFindQuery, "WHERE tenant_id = $1 AND id = $2")
	areas, err := r.queryAreas(ctx, query, tenantID.String(), id.String())
	if err != nil {
		return nil, err
	}
	if len(areas) == 0 {
		return nil, area.ErrNotFound
	}
	return areas[0], nil
}

func (r *PgAreaRepository) queryAreas(ctx context.Context, query string, args ...any) ([]*area.Area, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying areas")
	}
	defer rows.Close()

	out := make([]*area.Area, 0)
	for rows.Next() {
		var dbRow models.Area
		if err := rows.Scan(&dbRow.ID, &dbRow.TenantID, &dbRow.Name, &dbRow.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning area")
		}
		entity, err := toDomainArea(&dbRow)
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, rows.Err()
}
