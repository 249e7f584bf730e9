package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stratix-io/stratix-platform/pkg/composables"
)

const userIDByEmailQuery = `
	SELECT id FROM user_profiles
	WHERE tenant_id = $1 AND LOWER(email) = LOWER($2)
	LIMIT 1`

// PgUserDirectory resolves assignee emails against the tenant's user
// profiles. An unknown email is not an error; the caller leaves the
// assignee unset.
type PgUserDirectory struct{}

func NewUserDirectory() *PgUserDirectory {
	return &PgUserDirectory{}
}

func (d *PgUserDirectory) FindIDByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	tenantID, err := composables.UseTenantID(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	var idStr string
	err = tx.QueryRow(ctx, userIDByEmailQuery, tenantID.String(), email).Scan(&idStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "resolving user by email")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "parsing user id")
	}
	return id, nil
}
