package importjob

import (
	"time"

	"github.com/google/uuid"
)

type EntityType string

const (
	EntityObjective  EntityType = "objective"
	EntityInitiative EntityType = "initiative"
	EntityActivity   EntityType = "activity"
)

type RowAction string

const (
	ActionCreate RowAction = "create"
	ActionUpdate RowAction = "update"
)

type RowStatus string

const (
	RowSuccess RowStatus = "success"
	RowError   RowStatus = "error"
)

// RowOutcome records the result of one processed row. Written exactly once
// per row, never mutated afterwards. The raw payload is retained only on
// error so failures can be reproduced and re-submitted.
type RowOutcome struct {
	JobID        uuid.UUID
	RowNumber    int
	EntityType   EntityType
	EntityTitle  string
	EntityID     *uuid.UUID
	Action       RowAction
	Status       RowStatus
	ErrorCode    string
	ErrorMessage string
	Payload      map[string]string
	CreatedAt    time.Time
}
