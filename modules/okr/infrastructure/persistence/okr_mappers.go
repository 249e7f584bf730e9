package persistence

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/activity"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/initiative"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/objective"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/area"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/modules/okr/infrastructure/persistence/models"
)

func toDomainArea(dbRow *models.Area) (*area.Area, error) {
	id, err := uuid.Parse(dbRow.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing area id")
	}
	tenantID, err := uuid.Parse(dbRow.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing area tenant id")
	}
	return area.New(
		dbRow.Name,
		area.WithID(id),
		area.WithTenantID(tenantID),
	), nil
}

func toDomainObjective(dbRow *models.Objective) (*objective.Objective, error) {
	id, err := uuid.Parse(dbRow.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing objective id")
	}
	tenantID, err := uuid.Parse(dbRow.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing objective tenant id")
	}
	areaID, err := uuid.Parse(dbRow.AreaID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing objective area id")
	}
	progress, err := decimal.NewFromString(dbRow.Progress)
	if err != nil {
		return nil, errors.Wrap(err, "parsing objective progress")
	}
	return objective.New(
		dbRow.Title,
		objective.WithID(id),
		objective.WithTenantID(tenantID),
		objective.WithAreaID(areaID),
		objective.WithDescription(dbRow.Description),
		objective.WithStatus(dbRow.Status),
		objective.WithPriority(dbRow.Priority),
		objective.WithProgress(progress),
		objective.WithStartDate(dbRow.StartDate),
		objective.WithDueDate(dbRow.DueDate),
		objective.WithCreatedAt(dbRow.CreatedAt),
		objective.WithUpdatedAt(dbRow.UpdatedAt),
	), nil
}

func toDBObjective(entity *objective.Objective) *models.Objective {
	return &models.Objective{
		ID:          entity.ID().String(),
		TenantID:    entity.TenantID().String(),
		AreaID:      entity.AreaID().String(),
		Title:       entity.Title(),
		Description: entity.Description(),
		Status:      entity.Status(),
		Priority:    entity.Priority(),
		Progress:    entity.Progress().String(),
		StartDate:   entity.StartDate(),
		DueDate:     entity.DueDate(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func toDomainInitiative(dbRow *models.Initiative) (*initiative.Initiative, error) {
	id, err := uuid.Parse(dbRow.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing initiative id")
	}
	tenantID, err := uuid.Parse(dbRow.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing initiative tenant id")
	}
	areaID, err := uuid.Parse(dbRow.AreaID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing initiative area id")
	}
	progress, err := decimal.NewFromString(dbRow.Progress)
	if err != nil {
		return nil, errors.Wrap(err, "parsing initiative progress")
	}
	return initiative.New(
		dbRow.Title,
		initiative.WithID(id),
		initiative.WithTenantID(tenantID),
		initiative.WithAreaID(areaID),
		initiative.WithDescription(dbRow.Description),
		initiative.WithStatus(dbRow.Status),
		initiative.WithPriority(dbRow.Priority),
		initiative.WithProgress(progress),
		initiative.WithStartDate(dbRow.StartDate),
		initiative.WithDueDate(dbRow.DueDate),
		initiative.WithCreatedAt(dbRow.CreatedAt),
		initiative.WithUpdatedAt(dbRow.UpdatedAt),
	), nil
}

func toDBInitiative(entity *initiative.Initiative) *models.Initiative {
	return &models.Initiative{
		ID:          entity.ID().String(),
		TenantID:    entity.TenantID().String(),
		AreaID:      entity.AreaID().String(),
		Title:       entity.Title(),
		Description: entity.Description(),
		Status:      entity.Status(),
		Priority:    entity.Priority(),
		Progress:    entity.Progress().String(),
		StartDate:   entity.StartDate(),
		DueDate:     entity.DueDate(),
		CreatedAt:   entity.CreatedAt(),
		UpdatedAt:   entity.UpdatedAt(),
	}
}

func toDomainActivity(dbRow *models.Activity) (*activity.Activity, error) {
	id, err := uuid.Parse(dbRow.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing activity id")
	}
	tenantID, err := uuid.Parse(dbRow.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing activity tenant id")
	}
	initiativeID, err := uuid.Parse(dbRow.InitiativeID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing activity initiative id")
	}
	var assigneeID *uuid.UUID
	if dbRow.AssigneeID != nil {
		parsed, err := uuid.Parse(*dbRow.AssigneeID)
		if err != nil {
			return nil, errors.Wrap(err, "parsing activity assignee id")
		}
		assigneeID = &parsed
	}
	return activity.New(
		dbRow.Title,
		activity.WithID(id),
		activity.WithTenantID(tenantID),
		activity.WithInitiativeID(initiativeID),
		activity.WithDescription(dbRow.Description),
		activity.WithStatus(dbRow.Status),
		activity.WithPriority(dbRow.Priority),
		activity.WithAssigneeID(assigneeID),
		activity.WithDueDate(dbRow.DueDate),
		activity.WithCompleted(dbRow.Completed),
		activity.WithCreatedAt(dbRow.CreatedAt),
		activity.WithUpdatedAt(dbRow.UpdatedAt),
	), nil
}

func toDBActivity(entity *activity.Activity) *models.Activity {
	var assigneeID *string
	if entity.AssigneeID() != nil {
		s := entity.AssigneeID().String()
		assigneeID = &s
	}
	return &models.Activity{
		ID:           entity.ID().String(),
		TenantID:     entity.TenantID().String(),
		InitiativeID: entity.InitiativeID().String(),
		Title:        entity.Title(),
		Description:  entity.Description(),
		Status:       entity.Status(),
		Priority:     entity.Priority(),
		AssigneeID:   assigneeID,
		DueDate:      entity.DueDate(),
		Completed:    entity.Completed(),
		CreatedAt:    entity.CreatedAt(),
		UpdatedAt:    entity.UpdatedAt(),
	}
}

func toDomainImportJob(dbRow *models.ImportJob) (*importjob.Job, error) {
	id, err := uuid.Parse(dbRow.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing import job id")
	}
	tenantID, err := uuid.Parse(dbRow.TenantID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing import job tenant id")
	}
	userID, err := uuid.Parse(dbRow.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing import job user id")
	}
	areaID, err := uuid.Parse(dbRow.AreaID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing import job area id")
	}
	return importjob.New(
		dbRow.SourcePath,
		dbRow.ContentType,
		importjob.WithID(id),
		importjob.WithTenantID(tenantID),
		importjob.WithUserID(userID),
		importjob.WithAreaID(areaID),
		importjob.WithStatus(importjob.Status(dbRow.Status)),
		importjob.WithCounters(dbRow.TotalRows, dbRow.ProcessedRows, dbRow.SuccessRows, dbRow.ErrorRows),
		importjob.WithErrorSummary(dbRow.ErrorSummary),
		importjob.WithStartedAt(dbRow.StartedAt),
		importjob.WithCompletedAt(dbRow.CompletedAt),
		importjob.WithCreatedAt(dbRow.CreatedAt),
	), nil
}

func toDomainRowOutcome(dbRow *models.ImportRowOutcome) (*importjob.RowOutcome, error) {
	jobID, err := uuid.Parse(dbRow.JobID)
	if err != nil {
		return nil, errors.Wrap(err, "parsing row outcome job id")
	}
	var entityID *uuid.UUID
	if dbRow.EntityID != nil {
		parsed, err := uuid.Parse(*dbRow.EntityID)
		if err != nil {
			return nil, errors.Wrap(err, "parsing row outcome entity id")
		}
		entityID = &parsed
	}
	var payload map[string]string
	if len(dbRow.Payload) > 0 {
		if err := json.Unmarshal(dbRow.Payload, &payload); err != nil {
			return nil, errors.Wrap(err, "decoding row outcome payload")
		}
	}
	return &importjob.RowOutcome{
		JobID:        jobID,
		RowNumber:    dbRow.RowNumber,
		EntityType:   importjob.EntityType(dbRow.EntityType),
		EntityTitle:  dbRow.EntityTitle,
		EntityID:     entityID,
		Action:       importjob.RowAction(dbRow.Action),
		Status:       importjob.RowStatus(dbRow.Status),
		ErrorCode:    dbRow.ErrorCode,
		ErrorMessage: dbRow.ErrorMessage,
		Payload:      payload,
		CreatedAt:    dbRow.CreatedAt,
	}, nil
}

func toDBRowOutcome(outcome *importjob.RowOutcome) (*models.ImportRowOutcome, error) {
	var entityID *string
	if outcome.EntityID != nil {
		s := outcome.EntityID.String()
		entityID = &s
	}
	var payload []byte
	if len(outcome.Payload) > 0 {
		encoded, err := json.Marshal(outcome.Payload)
		if err != nil {
			return nil, errors.Wrap(err, "encoding row outcome payload")
		}
		payload = encoded
	}
	return &models.ImportRowOutcome{
		JobID:        outcome.JobID.String(),
		RowNumber:    outcome.RowNumber,
		EntityType:   string(outcome.EntityType),
		EntityTitle:  outcome.EntityTitle,
		EntityID:     entityID,
		Action:       string(outcome.Action),
		Status:       string(outcome.Status),
		ErrorCode:    outcome.ErrorCode,
		ErrorMessage: outcome.ErrorMessage,
		Payload:      payload,
		CreatedAt:    outcome.CreatedAt,
	}, nil
}
