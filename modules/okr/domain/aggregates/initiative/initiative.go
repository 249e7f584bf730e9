package initiative

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Initiative is the middle level of the OKR hierarchy. Storage allows an
// initiative to serve several objectives, but its import identity is always
// (objective, case-insensitive title): an initiative with the same name under
// a different objective is a different entity.
type Initiative struct {
	id          uuid.UUID
	tenantID    uuid.UUID
	areaID      uuid.UUID
	title       string
	description string
	status      string
	priority    string
	progress    decimal.Decimal
	startDate   *time.Time
	dueDate     *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

type Option func(*Initiative)

func WithID(id uuid.UUID) Option {
	return func(i *Initiative) {
		i.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(i *Initiative) {
		i.tenantID = tenantID
	}
}

func WithAreaID(areaID uuid.UUID) Option {
	return func(i *Initiative) {
		i.areaID = areaID
	}
}

func WithDescription(description string) Option {
	return func(i *Initiative) {
		i.description = description
	}
}

func WithStatus(status string) Option {
	return func(i *Initiative) {
		i.status = status
	}
}

func WithPriority(priority string) Option {
	return func(i *Initiative) {
		i.priority = priority
	}
}

func WithProgress(progress decimal.Decimal) Option {
	return func(i *Initiative) {
		i.progress = progress
	}
}

func WithStartDate(t *time.Time) Option {
	return func(i *Initiative) {
		i.startDate = t
	}
}

func WithDueDate(t *time.Time) Option {
	return func(i *Initiative) {
		i.dueDate = t
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(i *Initiative) {
		i.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(i *Initiative) {
		i.updatedAt = t
	}
}

func New(title string, opts ...Option) *Initiative {
	i := &Initiative{
		id:        uuid.New(),
		title:     title,
		progress:  decimal.Zero,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Initiative) ID() uuid.UUID             { return i.id }
func (i *Initiative) TenantID() uuid.UUID       { return i.tenantID }
func (i *Initiative) AreaID() uuid.UUID         { return i.areaID }
func (i *Initiative) Title() string             { return i.title }
func (i *Initiative) Description() string       { return i.description }
func (i *Initiative) Status() string            { return i.status }
func (i *Initiative) Priority() string          { return i.priority }
func (i *Initiative) Progress() decimal.Decimal { return i.progress }
func (i *Initiative) StartDate() *time.Time     { return i.startDate }
func (i *Initiative) DueDate() *time.Time       { return i.dueDate }
func (i *Initiative) CreatedAt() time.Time      { return i.createdAt }
func (i *Initiative) UpdatedAt() time.Time      { return i.updatedAt }

// ApplyAttrs overwrites the mutable attributes from a later import row,
// preserving the stored title casing.
func (i *Initiative) ApplyAttrs(description, status, priority string, progress decimal.Decimal, startDate, dueDate *time.Time) {
	i.description = description
	i.status = status
	i.priority = priority
	i.progress = progress
	i.startDate = startDate
	i.dueDate = dueDate
	i.updatedAt = time.Now()
}
