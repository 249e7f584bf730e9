package area

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("area not found")

// Area is a canonical organizational unit (división). Objectives and
// initiatives hang off an area; free-text labels from import files are
// resolved against the tenant's set of areas.
type Area struct {
	id       uuid.UUID
	tenantID uuid.UUID
	name     string
}

type Option func(*Area)

func WithID(id uuid.UUID) Option {
	return func(a *Area) {
		a.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(a *Area) {
		a.tenantID = tenantID
	}
}

func New(name string, opts ...Option) *Area {
	a := &Area{
		id:   uuid.New(),
		name: name,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Area) ID() uuid.UUID {
	return a.id
}

func (a *Area) TenantID() uuid.UUID {
	return a.tenantID
}

func (a *Area) Name() string {
	return a.name
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Area, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Area, error)
}
