package activity

import (
	"time"

	"github.com/google/uuid"
)

// Activity is the leaf of the OKR hierarchy and belongs to exactly one
// initiative.
type Activity struct {
	id           uuid.UUID
	tenantID     uuid.UUID
	initiativeID uuid.UUID
	title        string
	description  string
	status       string
	priority     string
	assigneeID   *uuid.UUID
	dueDate      *time.Time
	completed    bool
	createdAt    time.Time
	updatedAt    time.Time
}

type Option func(*Activity)

func WithID(id uuid.UUID) Option {
	return func(a *Activity) {
		a.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(a *Activity) {
		a.tenantID = tenantID
	}
}

func WithInitiativeID(initiativeID uuid.UUID) Option {
	return func(a *Activity) {
		a.initiativeID = initiativeID
	}
}

func WithDescription(description string) Option {
	return func(a *Activity) {
		a.description = description
	}
}

func WithStatus(status string) Option {
	return func(a *Activity) {
		a.status = status
	}
}

func WithPriority(priority string) Option {
	return func(a *Activity) {
		a.priority = priority
	}
}

func WithAssigneeID(id *uuid.UUID) Option {
	return func(a *Activity) {
		a.assigneeID = id
	}
}

func WithDueDate(t *time.Time) Option {
	return func(a *Activity) {
		a.dueDate = t
	}
}

func WithCompleted(completed bool) Option {
	return func(a *Activity) {
		a.completed = completed
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(a *Activity) {
		a.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(a *Activity) {
		a.updatedAt = t
	}
}

func New(title string, opts ...Option) *Activity {
	a := &Activity{
		id:        uuid.New(),
		title:     title,
		createdAt: time.Now(),
		updatedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Activity) ID() uuid.UUID           { return a.id }
func (a *Activity) TenantID() uuid.UUID     { return a.tenantID }
func (a *Activity) InitiativeID() uuid.UUID { return a.initiativeID }
func (a *Activity) Title() string           { return a.title }
func (a *Activity) Description() string     { return a.description }
func (a *Activity) Status() string          { return a.status }
func (a *Activity) Priority() string        { return a.priority }
func (a *Activity) AssigneeID() *uuid.UUID  { return a.assigneeID }
func (a *Activity) DueDate() *time.Time     { return a.dueDate }
func (a *Activity) Completed() bool         { return a.completed }
func (a *Activity) CreatedAt() time.Time    { return a.createdAt }
func (a *Activity) UpdatedAt() time.Time    { return a.updatedAt }

// ApplyAttrs overwrites the mutable attributes from a later import row,
// preserving the stored title casing.
func (a *Activity) ApplyAttrs(description, status, priority string, assigneeID *uuid.UUID, dueDate *time.Time, completed bool) {
	a.description = description
	a.status = status
	a.priority = priority
	a.assigneeID = assigneeID
	a.dueDate = dueDate
	a.completed = completed
	a.updatedAt = time.Now()
}
