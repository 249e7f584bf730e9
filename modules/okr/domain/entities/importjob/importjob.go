package importjob

import (
	"time"

	"github.com/google/uuid"
)

// Status is the job lifecycle state. Once a terminal status is reached the
// job record is immutable.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusPartial    Status = "partial"
	StatusFailed     Status = "failed"
)

func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusPartial, StatusFailed:
		return true
	}
	return false
}

// Job represents one submitted import file. The acting tenant, user and
// target area come from the identity layer that created the job; the engine
// makes no authorization decisions of its own.
type Job struct {
	id            uuid.UUID
	tenantID      uuid.UUID
	userID        uuid.UUID
	areaID        uuid.UUID
	sourcePath    string
	contentType   string
	status        Status
	totalRows     int
	processedRows int
	successRows   int
	errorRows     int
	errorSummary  string
	startedAt     *time.Time
	completedAt   *time.Time
	createdAt     time.Time
}

type Option func(*Job)

func WithID(id uuid.UUID) Option {
	return func(j *Job) {
		j.id = id
	}
}

func WithTenantID(tenantID uuid.UUID) Option {
	return func(j *Job) {
		j.tenantID = tenantID
	}
}

func WithUserID(userID uuid.UUID) Option {
	return func(j *Job) {
		j.userID = userID
	}
}

func WithAreaID(areaID uuid.UUID) Option {
	return func(j *Job) {
		j.areaID = areaID
	}
}

func WithStatus(status Status) Option {
	return func(j *Job) {
		j.status = status
	}
}

func WithCounters(total, processed, success, errored int) Option {
	return func(j *Job) {
		j.totalRows = total
		j.processedRows = processed
		j.successRows = success
		j.errorRows = errored
	}
}

func WithErrorSummary(summary string) Option {
	return func(j *Job) {
		j.errorSummary = summary
	}
}

func WithStartedAt(t *time.Time) Option {
	return func(j *Job) {
		j.startedAt = t
	}
}

func WithCompletedAt(t *time.Time) Option {
	return func(j *Job) {
		j.completedAt = t
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(j *Job) {
		j.createdAt = t
	}
}

func New(sourcePath, contentType string, opts ...Option) *Job {
	j := &Job{
		id:          uuid.New(),
		sourcePath:  sourcePath,
		contentType: contentType,
		status:      StatusQueued,
		createdAt:   time.Now(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

func (j *Job) ID() uuid.UUID           { return j.id }
func (j *Job) TenantID() uuid.UUID     { return j.tenantID }
func (j *Job) UserID() uuid.UUID       { return j.userID }
func (j *Job) AreaID() uuid.UUID       { return j.areaID }
func (j *Job) SourcePath() string      { return j.sourcePath }
func (j *Job) ContentType() string     { return j.contentType }
func (j *Job) Status() Status          { return j.status }
func (j *Job) TotalRows() int          { return j.totalRows }
func (j *Job) ProcessedRows() int      { return j.processedRows }
func (j *Job) SuccessRows() int        { return j.successRows }
func (j *Job) ErrorRows() int          { return j.errorRows }
func (j *Job) ErrorSummary() string    { return j.errorSummary }
func (j *Job) StartedAt() *time.Time   { return j.startedAt }
func (j *Job) CompletedAt() *time.Time { return j.completedAt }
func (j *Job) CreatedAt() time.Time    { return j.createdAt }
