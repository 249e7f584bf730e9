package services

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/activity"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/initiative"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/aggregates/objective"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/area"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
)

// stubTx replaces the transactional wrapper so row callbacks run directly,
// without a database pool.
func stubTx(t *testing.T) {
	t.Helper()
	prev := inTxFn
	inTxFn = func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}
	t.Cleanup(func() { inTxFn = prev })
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type memObjectiveRepo struct {
	items   []*objective.Objective
	creates int
	updates int
	findErr error
}

func (m *memObjectiveRepo) FindByTitle(_ context.Context, title string) (*objective.Objective, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, o := range m.items {
		if strings.EqualFold(o.Title(), title) {
			return o, nil
		}
	}
	return nil, objective.ErrNotFound
}

func (m *memObjectiveRepo) Create(_ context.Context, entity *objective.Objective) (*objective.Objective, error) {
	m.items = append(m.items, entity)
	m.creates++
	return entity, nil
}

func (m *memObjectiveRepo) Update(_ context.Context, entity *objective.Objective) error {
	m.updates++
	for i, o := range m.items {
		if o.ID() == entity.ID() {
			m.items[i] = entity
			return nil
		}
	}
	return objective.ErrNotFound
}

type memInitiativeRepo struct {
	items   []*initiative.Initiative
	links   map[[2]uuid.UUID]bool
	creates int
	updates int
}

func newMemInitiativeRepo() *memInitiativeRepo {
	return &memInitiativeRepo{links: make(map[[2]uuid.UUID]bool)}
}

func (m *memInitiativeRepo) FindByTitleForObjective(_ context.Context, title string, objectiveID uuid.UUID) (*initiative.Initiative, error) {
	for _, i := range m.items {
		if strings.EqualFold(i.Title(), title) && m.links[[2]uuid.UUID{i.ID(), objectiveID}] {
			return i, nil
		}
	}
	return nil, initiative.ErrNotFound
}

func (m *memInitiativeRepo) Create(_ context.Context, entity *initiative.Initiative) (*initiative.Initiative, error) {
	m.items = append(m.items, entity)
	m.creates++
	return entity, nil
}

func (m *memInitiativeRepo) Update(_ context.Context, entity *initiative.Initiative) error {
	m.updates++
	for i, it := range m.items {
		if it.ID() == entity.ID() {
			m.items[i] = entity
			return nil
		}
	}
	return initiative.ErrNotFound
}

func (m *memInitiativeRepo) Link(_ context.Context, initiativeID, objectiveID uuid.UUID) error {
	m.links[[2]uuid.UUID{initiativeID, objectiveID}] = true
	return nil
}

func (m *memInitiativeRepo) linkedObjectives(initiativeID uuid.UUID) []uuid.UUID {
	var out []uuid.UUID
	for pair, ok := range m.links {
		if ok && pair[0] == initiativeID {
			out = append(out, pair[1])
		}
	}
	return out
}

type memActivityRepo struct {
	items   []*activity.Activity
	creates int
	updates int
}

func (m *memActivityRepo) FindByTitleForInitiative(_ context.Context, title string, initiativeID uuid.UUID) (*activity.Activity, error) {
	for _, a := range m.items {
		if strings.EqualFold(a.Title(), title) && a.InitiativeID() == initiativeID {
			return a, nil
		}
	}
	return nil, activity.ErrNotFound
}

func (m *memActivityRepo) Create(_ context.Context, entity *activity.Activity) (*activity.Activity, error) {
	m.items = append(m.items, entity)
	m.creates++
	return entity, nil
}

func (m *memActivityRepo) Update(_ context.Context, entity *activity.Activity) error {
	m.updates++
	for i, a := range m.items {
		if a.ID() == entity.ID() {
			m.items[i] = entity
			return nil
		}
	}
	return activity.ErrNotFound
}

type memUserDirectory struct {
	byEmail map[string]uuid.UUID
}

func (m *memUserDirectory) FindIDByEmail(_ context.Context, email string) (uuid.UUID, error) {
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return uuid.Nil, nil
	}
	return id, nil
}

type memAreaRepo struct {
	items []*area.Area
}

func (m *memAreaRepo) GetAll(_ context.Context) ([]*area.Area, error) {
	return m.items, nil
}

func (m *memAreaRepo) GetByID(_ context.Context, id uuid.UUID) (*area.Area, error) {
	for _, a := range m.items {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, area.ErrNotFound
}

type memJobState struct {
	tenantID    uuid.UUID
	userID      uuid.UUID
	areaID      uuid.UUID
	sourcePath  string
	contentType string
	status      importjob.Status
	total       int
	processed   int
	success     int
	errored     int
	summary     string
}

type memImportRepo struct {
	jobs            map[uuid.UUID]*memJobState
	outcomes        []*importjob.RowOutcome
	checkpointCalls int
	addOutcomeErr   error
}

func newMemImportRepo() *memImportRepo {
	return &memImportRepo{jobs: make(map[uuid.UUID]*memJobState)}
}

func (m *memImportRepo) GetByID(_ context.Context, id uuid.UUID) (*importjob.Job, error) {
	st, ok := m.jobs[id]
	if !ok {
		return nil, importjob.ErrNotFound
	}
	return importjob.New(
		st.sourcePath,
		st.contentType,
		importjob.WithID(id),
		importjob.WithTenantID(st.tenantID),
		importjob.WithUserID(st.userID),
		importjob.WithAreaID(st.areaID),
		importjob.WithStatus(st.status),
		importjob.WithCounters(st.total, st.processed, st.success, st.errored),
		importjob.WithErrorSummary(st.summary),
	), nil
}

func (m *memImportRepo) MarkProcessing(_ context.Context, id uuid.UUID, totalRows int) error {
	st, ok := m.jobs[id]
	if !ok {
		return importjob.ErrNotFound
	}
	if st.status != importjob.StatusQueued {
		return importjob.ErrNotQueued
	}
	st.status = importjob.StatusProcessing
	st.total = totalRows
	return nil
}

func (m *memImportRepo) Checkpoint(_ context.Context, id uuid.UUID, processed, success, errored int) error {
	st, ok := m.jobs[id]
	if !ok {
		return importjob.ErrNotFound
	}
	m.checkpointCalls++
	st.processed = processed
	st.success = success
	st.errored = errored
	return nil
}

func (m *memImportRepo) MarkTerminal(_ context.Context, id uuid.UUID, status importjob.Status, processed, success, errored int, summary string) error {
	st, ok := m.jobs[id]
	if !ok {
		return importjob.ErrNotFound
	}
	if st.status != importjob.StatusProcessing {
		return importjob.ErrJobTerminal
	}
	st.status = status
	st.processed = processed
	st.success = success
	st.errored = errored
	st.summary = summary
	return nil
}

func (m *memImportRepo) AddRowOutcome(_ context.Context, outcome *importjob.RowOutcome) error {
	if m.addOutcomeErr != nil {
		return m.addOutcomeErr
	}
	m.outcomes = append(m.outcomes, outcome)
	return nil
}

func (m *memImportRepo) ListRowOutcomes(_ context.Context, jobID uuid.UUID, filter importjob.RowFilter) ([]*importjob.RowOutcome, error) {
	var out []*importjob.RowOutcome
	for _, o := range m.outcomes {
		if o.JobID != jobID {
			continue
		}
		if filter.OnlyErrors && o.Status != importjob.RowError {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type memStore struct {
	files map[string][]byte
}

func (m *memStore) Download(_ context.Context, path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, io.ErrUnexpectedEOF
	}
	return data, nil
}
