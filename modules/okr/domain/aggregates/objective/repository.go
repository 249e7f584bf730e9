package objective

import (
	"context"

	"github.com/go-faster/errors"
)

var ErrNotFound = errors.New("objective not found")

type Repository interface {
	// FindByTitle resolves an objective by case-insensitive title within the
	// tenant carried by ctx. Returns ErrNotFound when absent.
	FindByTitle(ctx context.Context, title string) (*Objective, error)
	Create(ctx context.Context, entity *Objective) (*Objective, error)
	Update(ctx context.Context, entity *Objective) error
}
