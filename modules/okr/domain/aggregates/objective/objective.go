package objective

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Objective is the top level of the OKR hierarchy. Within this pipeline its
// identity is (tenant, case-insensitive title), never a key from the input
// file.
type Objective struct {
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

type Option func(*Objective)

func WithID(id uuid.UUID) Option {
	return func(o *Objective) {
		o.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(o *Objective) {
		o.tenantID = tenantID
	}
}

func WithAreaID(areaID uuid.UUID) Option {
	return func(o *Objective) {
		o.areaID = areaID
	}
}

func WithDescription(description string) Option {
	return func(o *Objective) {
		o.description = description
	}
}

func WithStatus(status string) Option {
	return func(o *Objective) {
		o.status = status
	}
}

func WithPriority(priority string) Option {
	return func(o *Objective) {
		o.priority = priority
	}
}

func WithProgress(progress decimal.Decimal) Option {
	return func(o *Objective) {
		o.progress = progress
	}
}

func WithStartDate(t *time.Time) Option {
	return func(o *Objective) {
		o.startDate = t
	}
}

func WithDueDate(t *time.Time) Option {
	return func(o *Objective) {
		o.dueDate = t
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(o *Objective) {
		o.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(o *Objective) {
		o.updatedAt = t
	}
}

func New(title string, opts ...Option) *Objective {
	o := &Objective{
		id:        uuid.New(),
		title:     title,
		progress:  decimal.Zero,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Objective) ID() uuid.UUID             { return o.id }
func (o *Objective) TenantID() uuid.UUID       { return o.tenantID }
func (o *Objective) AreaID() uuid.UUID         { return o.areaID }
func (o *Objective) Title() string             { return o.title }
func (o *Objective) Description() string       { return o.description }
func (o *Objective) Status() string            { return o.status }
func (o *Objective) Priority() string          { return o.priority }
func (o *Objective) Progress() decimal.Decimal { return o.progress }
func (o *Objective) StartDate() *time.Time     { return o.startDate }
func (o *Objective) DueDate() *time.Time       { return o.dueDate }
func (o *Objective) CreatedAt() time.Time      { return o.createdAt }
func (o *Objective) UpdatedAt() time.Time      { return o.updatedAt }

// ApplyAttrs overwrites the mutable attributes from a later import row.
// The stored title keeps its original casing; identity is title-based and
// re-titling through an import is not supported.
func (o *Objective) ApplyAttrs(description, status, priority string, progress decimal.Decimal, startDate, dueDate *time.Time) {
	o.description = description
	o.status = status
	o.priority = priority
	o.progress = progress
	o.startDate = startDate
	o.dueDate = dueDate
	o.updatedAt = time.Now()
}
