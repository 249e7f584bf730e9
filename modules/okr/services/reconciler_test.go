package services

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/modules/okr/domain/matching"
	"github.com/stratix-io/stratix-platform/modules/okr/importer/tabular"
	"github.com/stratix-io/stratix-platform/pkg/serrors"
)

type reconcilerFixture struct {
	objectives  *memObjectiveRepo
	initiatives *memInitiativeRepo
	activities  *memActivityRepo
	users       *memUserDirectory
	tenantID    uuid.UUID
	areaID      uuid.UUID
}

func newFixture(t *testing.T) *reconcilerFixture {
	t.Helper()
	stubTx(t)
	return &reconcilerFixture{
		objectives:  &memObjectiveRepo{},
		initiatives: newMemInitiativeRepo(),
		activities:  &memActivityRepo{},
		users:       &memUserDirectory{byEmail: map[string]uuid.UUID{}},
		tenantID:    uuid.New(),
		areaID:      uuid.New(),
	}
}

func (f *reconcilerFixture) reconciler() *Reconciler {
	return NewReconciler(
		f.objectives,
		f.initiatives,
		f.activities,
		f.users,
		matching.NewMatcher(),
		f.tenantID,
		f.areaID,
		nil,
		testLogger().WithField("test", true),
	)
}

func TestProcessRowHierarchy(t *testing.T) {
	f := newFixture(t)
	rec := f.reconciler()
	ctx := context.Background()

	rows := []tabular.Row{
		{FieldObjectiveTitle: "Grow Revenue", FieldInitiativeTitle: "Launch CRM"},
		{FieldObjectiveTitle: "grow revenue", FieldInitiativeTitle: "Launch CRM", FieldActivityTitle: "Configure pipeline"},
	}

	res1 := rec.ProcessRow(ctx, 1, rows[0])
	require.NoError(t, res1.Err)
	assert.Equal(t, importjob.EntityInitiative, res1.EntityType)
	assert.Equal(t, importjob.ActionCreate, res1.Action)

	res2 := rec.ProcessRow(ctx, 2, rows[1])
	require.NoError(t, res2.Err)
	assert.Equal(t, importjob.EntityActivity, res2.EntityType)
	assert.Equal(t, importjob.ActionCreate, res2.Action)

	// Two rows, three entities, zero duplicates.
	assert.Equal(t, 1, f.objectives.creates)
	assert.Equal(t, 1, f.initiatives.creates)
	assert.Equal(t, 1, f.activities.creates)
	assert.Equal(t, "Grow Revenue", f.objectives.items[0].Title())

	linked := f.initiatives.linkedObjectives(f.initiatives.items[0].ID())
	require.Len(t, linked, 1)
	assert.Equal(t, f.objectives.items[0].ID(), linked[0])
	assert.Equal(t, f.initiatives.items[0].ID(), f.activities.items[0].InitiativeID())
}

func TestProcessRowScopingInvariant(t *testing.T) {
	f := newFixture(t)
	rec := f.reconciler()
	ctx := context.Background()

	res1 := rec.ProcessRow(ctx, 1, tabular.Row{FieldObjectiveTitle: "Obj A", FieldInitiativeTitle: "Rollout"})
	require.NoError(t, res1.Err)
	res2 := rec.ProcessRow(ctx, 2, tabular.Row{FieldObjectiveTitle: "Obj B", FieldInitiativeTitle: "Rollout"})
	require.NoError(t, res2.Err)

	// Same initiative title under different objectives is two entities,
	// each linked only to its own objective.
	require.Equal(t, 2, f.initiatives.creates)
	first := f.initiatives.items[0]
	second := f.initiatives.items[1]
	assert.NotEqual(t, first.ID(), second.ID())
	assert.Len(t, f.initiatives.linkedObjectives(first.ID()), 1)
	assert.Len(t, f.initiatives.linkedObjectives(second.ID()), 1)
	assert.NotEqual(t,
		f.initiatives.linkedObjectives(first.ID())[0],
		f.initiatives.linkedObjectives(second.ID())[0],
	)
}

func TestProcessRowBatchDedup(t *testing.T) {
	f := newFixture(t)
	rec := f.reconciler()
	ctx := context.Background()

	variants := []string{"Grow Revenue", "GROW REVENUE", "  grow revenue "}
	for n, v := range variants {
		res := rec.ProcessRow(ctx, n+1, tabular.Row{FieldObjectiveTitle: v, FieldInitiativeTitle: "Launch CRM"})
		require.NoError(t, res.Err)
	}

	assert.Equal(t, 1, f.objectives.creates)
	assert.Equal(t, 1, f.initiatives.creates)
}

func TestProcessRowIdempotentRerun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	row := tabular.Row{
		FieldObjectiveTitle:  "Grow Revenue",
		FieldInitiativeTitle: "Launch CRM",
		FieldActivityTitle:   "Configure pipeline",
	}

	first := f.reconciler()
	require.NoError(t, first.ProcessRow(ctx, 1, row).Err)

	// A fresh run with empty caches resolves everything from storage and
	// only updates.
	second := f.reconciler()
	res := second.ProcessRow(ctx, 1, row)
	require.NoError(t, res.Err)
	assert.Equal(t, importjob.ActionUpdate, res.Action)

	assert.Equal(t, 1, f.objectives.creates)
	assert.Equal(t, 1, f.initiatives.creates)
	assert.Equal(t, 1, f.activities.creates)
	assert.Equal(t, 1, f.objectives.updates)
	assert.Equal(t, 1, f.initiatives.updates)
	assert.Equal(t, 1, f.activities.updates)
}

func TestProcessRowMissingFields(t *testing.T) {
	f := newFixture(t)
	rec := f.reconciler()
	ctx := context.Background()

	res := rec.ProcessRow(ctx, 1, tabular.Row{FieldInitiativeTitle: "Launch CRM"})
	require.Error(t, res.Err)
	assert.Equal(t, "IMPORT_MISSING_FIELD", serrors.Code(res.Err))
	assert.Equal(t, importjob.EntityObjective, res.EntityType)

	res = rec.ProcessRow(ctx, 2, tabular.Row{FieldObjectiveTitle: "Grow Revenue"})
	require.Error(t, res.Err)
	assert.Equal(t, "IMPORT_MISSING_FIELD", serrors.Code(res.Err))
	assert.Equal(t, importjob.EntityInitiative, res.EntityType)

	// Nothing was written.
	assert.Zero(t, f.objectives.creates)
	assert.Zero(t, f.initiatives.creates)
}

func TestProcessRowDatastoreErrorIsRowLevel(t *testing.T) {
	f := newFixture(t)
	f.objectives.findErr = errors.New("connection reset")
	rec := f.reconciler()
	ctx := context.Background()

	res := rec.ProcessRow(ctx, 1, tabular.Row{FieldObjectiveTitle: "Grow Revenue", FieldInitiativeTitle: "Launch CRM"})
	require.Error(t, res.Err)
	assert.Equal(t, "IMPORT_DATASTORE", serrors.Code(res.Err))
	assert.Nil(t, res.EntityID)

	// A later row recovers once the datastore does.
	f.objectives.findErr = nil
	res = rec.ProcessRow(ctx, 2, tabular.Row{FieldObjectiveTitle: "Grow Revenue", FieldInitiativeTitle: "Launch CRM"})
	require.NoError(t, res.Err)
	assert.Equal(t, 1, f.objectives.creates)
}

func TestProcessRowFailedRowDoesNotPoisonCache(t *testing.T) {
	f := newFixture(t)
	rec := f.reconciler()
	ctx := context.Background()

	// First encounter fails mid-row; the cache must not remember the
	// rolled-back objective.
	f.objectives.findErr = errors.New("timeout")
	res := rec.ProcessRow(ctx, 1, tabular.Row{FieldObjectiveTitle: "Grow Revenue", FieldInitiativeTitle: "Launch CRM"})
	require.Error(t, res.Err)

	f.objectives.findErr = nil
	res = rec.ProcessRow(ctx, 2, tabular.Row{FieldObjectiveTitle: "Grow Revenue", FieldInitiativeTitle: "Launch CRM"})
	require.NoError(t, res.Err)
	assert.Equal(t, importjob.ActionCreate, res.Action)
}

func TestProcessRowAssignee(t *testing.T) {
	f := newFixture(t)
	assignee := uuid.New()
	f.users.byEmail["ana@stratix.io"] = assignee
	rec := f.reconciler()
	ctx := context.Background()

	res := rec.ProcessRow(ctx, 1, tabular.Row{
		FieldObjectiveTitle:  "Grow Revenue",
		FieldInitiativeTitle: "Launch CRM",
		FieldActivityTitle:   "Configure pipeline",
		FieldAssigneeEmail:   "Ana@stratix.io",
		FieldCompleted:       "sí",
	})
	require.NoError(t, res.Err)

	act := f.activities.items[0]
	require.NotNil(t, act.AssigneeID())
	assert.Equal(t, assignee, *act.AssigneeID())
	assert.True(t, act.Completed())

	// Unknown emails leave the assignment unset without failing the row.
	res = rec.ProcessRow(ctx, 2, tabular.Row{
		FieldObjectiveTitle:  "Grow Revenue",
		FieldInitiativeTitle: "Launch CRM",
		FieldActivityTitle:   "Review metrics",
		FieldAssigneeEmail:   "nobody@stratix.io",
	})
	require.NoError(t, res.Err)
	assert.Nil(t, f.activities.items[1].AssigneeID())
}

func TestProcessRowAreaFallback(t *testing.T) {
	f := newFixture(t)
	stubTx(t)
	comercial := uuid.New()
	rec := NewReconciler(
		f.objectives,
		f.initiatives,
		f.activities,
		f.users,
		matching.NewMatcher(),
		f.tenantID,
		f.areaID,
		[]matching.Candidate{{ID: comercial, Name: "Comercial"}},
		testLogger().WithField("test", true),
	)
	ctx := context.Background()

	res := rec.ProcessRow(ctx, 1, tabular.Row{
		FieldObjectiveTitle:  "Grow Revenue",
		FieldInitiativeTitle: "Launch CRM",
		FieldArea:            "comercial",
	})
	require.NoError(t, res.Err)
	assert.Equal(t, comercial, f.objectives.items[0].AreaID())

	res = rec.ProcessRow(ctx, 2, tabular.Row{
		FieldObjectiveTitle:  "Expand North",
		FieldInitiativeTitle: "Open office",
		FieldArea:            "Xyzzy",
	})
	require.NoError(t, res.Err)
	assert.Equal(t, f.areaID, f.objectives.items[1].AreaID())
}
