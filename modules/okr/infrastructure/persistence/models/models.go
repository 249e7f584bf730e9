package models

import "time"

type Area struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
}

type Objective struct {
	ID          string
	TenantID    string
	AreaID      string
	Title       string
	Description string
	Status      string
	Priority    string
	Progress    string
	StartDate   *time.Time
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Initiative struct {
	ID          string
	TenantID    string
	AreaID      string
	Title       string
	Description string
	Status      string
	Priority    string
	Progress    string
	StartDate   *time.Time
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Activity struct {
	ID           string
	TenantID     string
	InitiativeID string
	Title        string
	Description  string
	Status       string
	Priority     string
	AssigneeID   *string
	DueDate      *time.Time
	Completed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ImportJob struct {
	ID            string
	TenantID      string
	UserID        string
	AreaID        string
	SourcePath    string
	ContentType   string
	Status        string
	TotalRows     int
	ProcessedRows int
	SuccessRows   int
	ErrorRows     int
	ErrorSummary  string
	StartedAt     *time.Time
	CompletedAt   *time.Time
	CreatedAt     time.Time
}

type ImportRowOutcome struct {
	JobID        string
	RowNumber    int
	EntityType   string
	EntityTitle  string
	EntityID     *string
	Action       string
	Status       string
	ErrorCode    string
	ErrorMessage string
	Payload      []byte
	CreatedAt    time.Time
}
