package services

import (
	"github.com/google/uuid"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
)

// ImportCompletedEvent is published on the event bus once a job reaches a
// terminal status, whichever that status is.
type ImportCompletedEvent struct {
	JobID       uuid.UUID
	TenantID    uuid.UUID
	Status      importjob.Status
	TotalRows   int
	SuccessRows int
	ErrorRows   int
}
