package activity

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("activity not found")

type Repository interface {
	// FindByTitleForInitiative resolves an activity by case-insensitive title
	// under the given initiative, within the tenant carried by ctx. Returns
	// ErrNotFound when absent.
	FindByTitleForInitiative(ctx context.Context, title string, initiativeID uuid.UUID) (*Activity, error)
	Create(ctx context.Context, entity *Activity) (*Activity, error)
	Update(ctx context.Context, entity *Activity) error
}
