package initiative

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("initiative not found")

type Repository interface {
	// FindByTitleForObjective resolves an initiative by case-insensitive title
	// among the initiatives already linked to the given objective, within the
	// tenant carried by ctx. Same-named initiatives linked to other objectives
	// must not match. Returns ErrNotFound when absent.
	FindByTitleForObjective(ctx context.Context, title string, objectiveID uuid.UUID) (*Initiative, error)
	Create(ctx context.Context, entity *Initiative) (*Initiative, error)
	Update(ctx context.Context, entity *Initiative) error
	// Link associates the initiative with an objective. Idempotent: linking an
	// already-linked pair is a no-op.
	Link(ctx context.Context, initiativeID, objectiveID uuid.UUID) error
}
