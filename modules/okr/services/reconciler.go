package services

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/activity"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/initiative"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/objective"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/matching"
	"github.com/stratix-io/stratix-platform/modules/okr/importer/tabular"
	"github.com/stratix-io/stratix-platform/pkg/composables"
	"github.com/stratix-io/stratix-platform/pkg/serrors"
)

// Input column names. The decoder passes headers through untouched, so these
// are the canonical template headers.
const (
	FieldObjectiveTitle  = "objective_title"
	FieldInitiativeTitle = "initiative_title"
	FieldActivityTitle   = "activity_title"
	FieldArea            = "area"
	FieldDescription     = "description"
	FieldStatus          = "status"
	FieldPriority        = "priority"
	FieldProgress        = "progress"
	FieldStartDate       = "start_date"
	FieldDueDate         = "due_date"
	FieldAssigneeEmail   = "assignee_email"
	FieldCompleted       = "completed"
)

var (
	ErrMissingField  = serrors.NewError("IMPORT_MISSING_FIELD", "required field is missing", "")
	ErrScopeConflict = serrors.NewError("IMPORT_SCOPE_CONFLICT", "scoped entity could not be resolved or created", "")
	ErrDatastore     = serrors.NewError("IMPORT_DATASTORE", "datastore failure", "")
	ErrCancelled     = serrors.NewError("IMPORT_CANCELLED", "import cancelled", "")
)

// inTxFn is swapped in tests to run row callbacks without a real pool.
var inTxFn = composables.InTx

// UserDirectory resolves an assignee email within the tenant. An unknown
// email yields uuid.Nil with no error.
type UserDirectory interface {
	FindIDByEmail(ctx context.Context, email string) (uuid.UUID, error)
}

// RowResult is the typed outcome of one row. Err is nil on success;
// EntityType, EntityTitle, Action and EntityID describe the deepest entity
// the row touched.
type RowResult struct {
	RowNumber   int
	EntityType  importjob.EntityType
	EntityTitle string
	EntityID    *uuid.UUID
	Action      importjob.RowAction
	Err         error
}

type initiativeRef struct {
	initiativeID uuid.UUID
	objectiveID  uuid.UUID
}

type initiativeKey struct {
	objective  string
	initiative string
}

// Reconciler merges rows into the objective -> initiative -> activity
// hierarchy. One instance serves one job run: the caches are batch-scoped
// and are what makes repeated titles within a file idempotent.
type Reconciler struct {
	objectives  objective.Repository
	initiatives initiative.Repository
	activities  activity.Repository
	users       UserDirectory
	matcher     *matching.Matcher
	logger      *logrus.Entry

	tenantID       uuid.UUID
	defaultAreaID  uuid.UUID
	areaCandidates []matching.Candidate

	objectiveCache  map[string]uuid.UUID
	initiativeCache map[initiativeKey]initiativeRef
}

func NewReconciler(
	objectives objective.Repository,
	initiatives initiative.Repository,
	activities activity.Repository,
	users UserDirectory,
	matcher *matching.Matcher,
	tenantID uuid.UUID,
	defaultAreaID uuid.UUID,
	areaCandidates []matching.Candidate,
	logger *logrus.Entry,
) *Reconciler {
	return &Reconciler{
		objectives:      objectives,
		initiatives:     initiatives,
		activities:      activities,
		users:           users,
		matcher:         matcher,
		logger:          logger,
		tenantID:        tenantID,
		defaultAreaID:   defaultAreaID,
		areaCandidates:  areaCandidates,
		objectiveCache:  make(map[string]uuid.UUID),
		initiativeCache: make(map[initiativeKey]initiativeRef),
	}
}

// ProcessRow reconciles one row inside a single transaction. It never
// panics past its boundary; every failure comes back as RowResult.Err and
// processing of later rows is unaffected.
func (r *Reconciler) ProcessRow(ctx context.Context, rowNumber int, row tabular.Row) RowResult {
	res := RowResult{RowNumber: rowNumber}

	objTitle := strings.TrimSpace(row[FieldObjectiveTitle])
	if objTitle == "" {
		res.EntityType = importjob.EntityObjective
		res.Err = ErrMissingField.WithDetails("row %d: %s", rowNumber, FieldObjectiveTitle)
		return res
	}
	initTitle := strings.TrimSpace(row[FieldInitiativeTitle])
	if initTitle == "" {
		res.EntityType = importjob.EntityInitiative
		res.EntityTitle = objTitle
		res.Err = ErrMissingField.WithDetails("row %d: %s", rowNumber, FieldInitiativeTitle)
		return res
	}
	actTitle := strings.TrimSpace(row[FieldActivityTitle])

	areaID := r.resolveArea(row[FieldArea])

	// Cache writes are deferred until the transaction commits, so a rolled
	// back row never leaks phantom IDs into later rows.
	var (
		pendingObjective  map[string]uuid.UUID
		pendingInitiative map[initiativeKey]initiativeRef
	)

	err := inTxFn(ctx, func(txCtx context.Context) error {
		pendingObjective = make(map[string]uuid.UUID)
		pendingInitiative = make(map[initiativeKey]initiativeRef)

		objID, _, err := r.resolveObjective(txCtx, objTitle, areaID, row, pendingObjective)
		if err != nil {
			return err
		}

		initID, initCreated, err := r.resolveInitiative(txCtx, objTitle, initTitle, objID, areaID, row, pendingInitiative)
		if err != nil {
			return err
		}

		if actTitle == "" {
			res.EntityType = importjob.EntityInitiative
			res.EntityTitle = initTitle
			res.EntityID = &initID
			res.Action = actionFor(initCreated)
			return nil
		}

		actID, actCreated, err := r.resolveActivity(txCtx, actTitle, initID, row)
		if err != nil {
			return err
		}
		res.EntityType = importjob.EntityActivity
		res.EntityTitle = actTitle
		res.EntityID = &actID
		res.Action = actionFor(actCreated)
		return nil
	})
	if err != nil {
		res.EntityID = nil
		if res.EntityTitle == "" {
			res.EntityTitle = objTitle
		}
		if res.EntityType == "" {
			res.EntityType = importjob.EntityObjective
		}
		res.Err = classify(err)
		return res
	}

	for k, v := range pendingObjective {
		r.objectiveCache[k] = v
	}
	for k, v := range pendingInitiative {
		r.initiativeCache[k] = v
	}
	return res
}

func actionFor(created bool) importjob.RowAction {
	if created {
		return importjob.ActionCreate
	}
	return importjob.ActionUpdate
}

// resolveArea maps a free-text area label to a known area, falling back to
// the job's target area when the label is absent or unmatched.
func (r *Reconciler) resolveArea(label string) uuid.UUID {
	label = strings.TrimSpace(label)
	if label == "" {
		return r.defaultAreaID
	}
	match := r.matcher.Resolve(label, r.areaCandidates)
	if match.Matched {
		r.logger.WithFields(logrus.Fields{
			"label":      label,
			"area":       match.AreaName,
			"tier":       match.Tier,
			"confidence": match.Confidence,
		}).Debug("area label resolved")
		return match.AreaID
	}

	suggestions := r.matcher.Suggest(label, r.areaCandidates, 3)
	names := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		names = append(names, s.AreaName)
	}
	r.logger.WithFields(logrus.Fields{
		"label":       label,
		"suggestions": names,
	}).Warn("area label did not match, using job target area")
	return r.defaultAreaID
}

func (r *Reconciler) resolveObjective(ctx context.Context, title string, areaID uuid.UUID, row tabular.Row, pending map[string]uuid.UUID) (uuid.UUID, bool, error) {
	key := normalizeTitle(title)
	if id, ok := r.objectiveCache[key]; ok {
		return id, false, nil
	}

	existing, err := r.objectives.FindByTitle(ctx, title)
	switch {
	case err == nil:
		existing.ApplyAttrs(
			row[FieldDescription],
			CoerceStatus(row[FieldStatus]),
			CoercePriority(row[FieldPriority]),
			CoerceProgress(row[FieldProgress]),
			CoerceDate(row[FieldStartDate]),
			CoerceDate(row[FieldDueDate]),
		)
		if err := r.objectives.Update(ctx, existing); err != nil {
			return uuid.Nil, false, errors.Wrap(err, "updating objective")
		}
		pending[key] = existing.ID()
		return existing.ID(), false, nil
	case errors.Is(err, objective.ErrNotFound):
		entity := objective.New(
			title,
			objective.WithTenantID(r.tenantID),
			objective.WithAreaID(areaID),
			objective.WithDescription(row[FieldDescription]),
			objective.WithStatus(CoerceStatus(row[FieldStatus])),
			objective.WithPriority(CoercePriority(row[FieldPriority])),
			objective.WithProgress(CoerceProgress(row[FieldProgress])),
			objective.WithStartDate(CoerceDate(row[FieldStartDate])),
			objective.WithDueDate(CoerceDate(row[FieldDueDate])),
		)
		created, err := r.objectives.Create(ctx, entity)
		if err != nil {
			return uuid.Nil, false, ErrScopeConflict.WithDetails("creating objective %q: %v", title, err)
		}
		pending[key] = created.ID()
		return created.ID(), true, nil
	default:
		return uuid.Nil, false, errors.Wrap(err, "finding objective")
	}
}

func (r *Reconciler) resolveInitiative(ctx context.Context, objTitle, title string, objectiveID, areaID uuid.UUID, row tabular.Row, pending map[initiativeKey]initiativeRef) (uuid.UUID, bool, error) {
	key := initiativeKey{objective: normalizeTitle(objTitle), initiative: normalizeTitle(title)}
	if ref, ok := r.initiativeCache[key]; ok {
		return ref.initiativeID, false, nil
	}

	existing, err := r.initiatives.FindByTitleForObjective(ctx, title, objectiveID)
	switch {
	case err == nil:
		existing.ApplyAttrs(
			row[FieldDescription],
			CoerceStatus(row[FieldStatus]),
			CoercePriority(row[FieldPriority]),
			CoerceProgress(row[FieldProgress]),
			CoerceDate(row[FieldStartDate]),
			CoerceDate(row[FieldDueDate]),
		)
		if err := r.initiatives.Update(ctx, existing); err != nil {
			return uuid.Nil, false, errors.Wrap(err, "updating initiative")
		}
		pending[key] = initiativeRef{initiativeID: existing.ID(), objectiveID: objectiveID}
		return existing.ID(), false, nil
	case errors.Is(err, initiative.ErrNotFound):
		entity := initiative.New(
			title,
			initiative.WithTenantID(r.tenantID),
			initiative.WithAreaID(areaID),
			initiative.WithDescription(row[FieldDescription]),
			initiative.WithStatus(CoerceStatus(row[FieldStatus])),
			initiative.WithPriority(CoercePriority(row[FieldPriority])),
			initiative.WithProgress(CoerceProgress(row[FieldProgress])),
			initiative.WithStartDate(CoerceDate(row[FieldStartDate])),
			initiative.WithDueDate(CoerceDate(row[FieldDueDate])),
		)
		created, err := r.initiatives.Create(ctx, entity)
		if err != nil {
			return uuid.Nil, false, ErrScopeConflict.WithDetails("creating initiative %q: %v", title, err)
		}
		if err := r.initiatives.Link(ctx, created.ID(), objectiveID); err != nil {
			return uuid.Nil, false, errors.Wrap(err, "linking initiative")
		}
		pending[key] = initiativeRef{initiativeID: created.ID(), objectiveID: objectiveID}
		return created.ID(), true, nil
	default:
		return uuid.Nil, false, errors.Wrap(err, "finding initiative")
	}
}

func (r *Reconciler) resolveActivity(ctx context.Context, title string, initiativeID uuid.UUID, row tabular.Row) (uuid.UUID, bool, error) {
	assigneeID, err := r.resolveAssignee(ctx, row[FieldAssigneeEmail])
	if err != nil {
		return uuid.Nil, false, err
	}

	existing, err := r.activities.FindByTitleForInitiative(ctx, title, initiativeID)
	switch {
	case err == nil:
		existing.ApplyAttrs(
			row[FieldDescription],
			CoerceStatus(row[FieldStatus]),
			CoercePriority(row[FieldPriority]),
			assigneeID,
			CoerceDate(row[FieldDueDate]),
			CoerceBool(row[FieldCompleted]),
		)
		if err := r.activities.Update(ctx, existing); err != nil {
			return uuid.Nil, false, errors.Wrap(err, "updating activity")
		}
		return existing.ID(), false, nil
	case errors.Is(err, activity.ErrNotFound):
		entity := activity.New(
			title,
			activity.WithTenantID(r.tenantID),
			activity.WithInitiativeID(initiativeID),
			activity.WithDescription(row[FieldDescription]),
			activity.WithStatus(CoerceStatus(row[FieldStatus])),
			activity.WithPriority(CoercePriority(row[FieldPriority])),
			activity.WithAssigneeID(assigneeID),
			activity.WithDueDate(CoerceDate(row[FieldDueDate])),
			activity.WithCompleted(CoerceBool(row[FieldCompleted])),
		)
		created, err := r.activities.Create(ctx, entity)
		if err != nil {
			return uuid.Nil, false, ErrScopeConflict.WithDetails("creating activity %q: %v", title, err)
		}
		return created.ID(), true, nil
	default:
		return uuid.Nil, false, errors.Wrap(err, "finding activity")
	}
}

func (r *Reconciler) resolveAssignee(ctx context.Context, email string) (*uuid.UUID, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	id, err := r.users.FindIDByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "resolving assignee")
	}
	if id == uuid.Nil {
		r.logger.WithField("email", email).Debug("assignee email not found, leaving unset")
		return nil, nil
	}
	return &id, nil
}

// classify folds repository failures into the coded taxonomy so the row
// outcome carries a stable error code.
func classify(err error) error {
	if serrors.Code(err) != "" {
		return err
	}
	return ErrDatastore.WithDetails("%v", err)
}

func normalizeTitle(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
