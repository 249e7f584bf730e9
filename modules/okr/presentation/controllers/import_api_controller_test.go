package controllers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/modules/okr/presentation/controllers"
)

type stubJobRepo struct {
	job      *importjob.Job
	outcomes []*importjob.RowOutcome
}

func (s *stubJobRepo) GetByID(_ context.Context, id uuid.UUID) (*importjob.Job, error) {
	if s.job == nil || s.job.ID() != id {
		return nil, importjob.ErrNotFound
	}
	return s.job, nil
}

func (s *stubJobRepo) MarkProcessing(context.Context, uuid.UUID, int) error {
	return nil
}

func (s *stubJobRepo) Checkpoint(context.Context, uuid.UUID, int, int, int) error {
	return nil
}

func (s *stubJobRepo) MarkTerminal(context.Context, uuid.UUID, importjob.Status, int, int, int, string) error {
	return nil
}

func (s *stubJobRepo) AddRowOutcome(context.Context, *importjob.RowOutcome) error {
	return nil
}

func (s *stubJobRepo) ListRowOutcomes(_ context.Context, jobID uuid.UUID, filter importjob.RowFilter) ([]*importjob.RowOutcome, error) {
	var out []*importjob.RowOutcome
	for _, o := range s.outcomes {
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

func testRouter(repo *stubJobRepo) *mux.Router {
	log := logrus.New()
	log.SetOutput(io.Discard)
	r := mux.NewRouter()
	controllers.NewImportAPIController(repo, log).Register(r)
	return r
}

func TestGetJob(t *testing.T) {
	job := importjob.New(
		"imports/okr.csv",
		"text/csv",
		importjob.WithStatus(importjob.StatusPartial),
		importjob.WithCounters(10, 10, 8, 2),
		importjob.WithErrorSummary("2 of 10 rows failed"),
	)
	router := testRouter(&stubJobRepo{job: job})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/okr/import/jobs/"+job.ID().String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "partial", body["status"])
	assert.EqualValues(t, 10, body["total_rows"])
	assert.EqualValues(t, 2, body["error_rows"])
	assert.Equal(t, "2 of 10 rows failed", body["error_summary"])
}

func TestGetJobNotFound(t *testing.T) {
	router := testRouter(&stubJobRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/okr/import/jobs/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "NOT_FOUND", envelope["code"])
}

func TestGetJobBadID(t *testing.T) {
	router := testRouter(&stubJobRepo{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/okr/import/jobs/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRowsErrorFilter(t *testing.T) {
	job := importjob.New("imports/okr.csv", "text/csv")
	entityID := uuid.New()
	repo := &stubJobRepo{
		job: job,
		outcomes: []*importjob.RowOutcome{
			{
				JobID:       job.ID(),
				RowNumber:   1,
				EntityType:  importjob.EntityInitiative,
				EntityTitle: "Launch CRM",
				EntityID:    &entityID,
				Action:      importjob.ActionCreate,
				Status:      importjob.RowSuccess,
			},
			{
				JobID:        job.ID(),
				RowNumber:    2,
				EntityType:   importjob.EntityInitiative,
				EntityTitle:  "Grow Revenue",
				Status:       importjob.RowError,
				ErrorCode:    "IMPORT_MISSING_FIELD",
				ErrorMessage: "row 2: initiative_title",
				Payload:      map[string]string{"objective_title": "Grow Revenue"},
			},
		},
	}
	router := testRouter(repo)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/okr/import/jobs/"+job.ID().String()+"/rows?status=error", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.EqualValues(t, 2, rows[0]["row_number"])
	assert.Equal(t, "IMPORT_MISSING_FIELD", rows[0]["error_code"])
	assert.NotNil(t, rows[0]["payload"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/okr/import/jobs/"+job.ID().String()+"/rows", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 2)
}
