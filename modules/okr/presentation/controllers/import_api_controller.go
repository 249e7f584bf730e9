package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/stratix-io/stratix-platform/modules/okr/domain/entities/importjob"
	"github.com/stratix-io/stratix-platform/pkg/httpapi"
)

const defaultRowPageSize = 100

// ImportAPIController is the read side of the import pipeline: job progress
// and the per-row error table, polled by the presentation layer.
type ImportAPIController struct {
	jobs   importjob.Repository
	logger *logrus.Logger
}

func NewImportAPIController(jobs importjob.Repository, logger *logrus.Logger) *ImportAPIController {
	return &ImportAPIController{jobs: jobs, logger: logger}
}

func (c *ImportAPIController) Register(r *mux.Router) {
	r.HandleFunc("/okr/import/jobs/{id}", c.getJob).Methods(http.MethodGet)
	r.HandleFunc("/okr/import/jobs/{id}/rows", c.listRows).Methods(http.MethodGet)
}

type jobResponse struct {
	ID            string     `json:"id"`
	Status        string     `json:"status"`
	SourcePath    string     `json:"source_path"`
	ContentType   string     `json:"content_type"`
	TotalRows     int        `json:"total_rows"`
	ProcessedRows int        `json:"processed_rows"`
	SuccessRows   int        `json:"success_rows"`
	ErrorRows     int        `json:"error_rows"`
	ErrorSummary  string     `json:"error_summary,omitempty"`
	StartedAt     *time.Time `json:"started_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type rowResponse struct {
	RowNumber    int               `json:"row_number"`
	EntityType   string            `json:"entity_type"`
	EntityTitle  string            `json:"entity_title"`
	EntityID     *string           `json:"entity_id,omitempty"`
	Action       string            `json:"action,omitempty"`
	Status       string            `json:"status"`
	ErrorCode    string            `json:"error_code,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Payload      map[string]string `json:"payload,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

func (c *ImportAPIController) getJob(w http.ResponseWriter, r *http.Request) {
	id, ok := c.jobID(w, r)
	if !ok {
		return
	}

	job, err := c.jobs.GetByID(r.Context(), id)
	if errors.Is(err, importjob.ErrNotFound) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "import job not found", nil)
		return
	}
	if err != nil {
		c.logger.WithError(err).Error("loading import job")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load import job", nil)
		return
	}

	_ = httpapi.WriteJSON(w, http.StatusOK, toJobResponse(job))
}

func (c *ImportAPIController) listRows(w http.ResponseWriter, r *http.Request) {
	id, ok := c.jobID(w, r)
	if !ok {
		return
	}
	if _, err := c.jobs.GetByID(r.Context(), id); errors.Is(err, importjob.ErrNotFound) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "import job not found", nil)
		return
	} else if err != nil {
		c.logger.WithError(err).Error("loading import job")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to load import job", nil)
		return
	}

	filter := importjob.RowFilter{
		OnlyErrors: r.URL.Query().Get("status") == "error",
		Limit:      queryInt(r, "limit", defaultRowPageSize),
		Offset:     queryInt(r, "offset", 0),
	}

	outcomes, err := c.jobs.ListRowOutcomes(r.Context(), id, filter)
	if err != nil {
		c.logger.WithError(err).Error("listing row outcomes")
		_ = httpapi.WriteError(w, http.StatusInternalServerError, "INTERNAL", "failed to list row outcomes", nil)
		return
	}

	out := make([]rowResponse, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, toRowResponse(o))
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, out)
}

func (c *ImportAPIController) jobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid job id", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func toJobResponse(job *importjob.Job) jobResponse {
	return jobResponse{
		ID:            job.ID().String(),
		Status:        string(job.Status()),
		SourcePath:    job.SourcePath(),
		ContentType:   job.ContentType(),
		TotalRows:     job.TotalRows(),
		ProcessedRows: job.ProcessedRows(),
		SuccessRows:   job.SuccessRows(),
		ErrorRows:     job.ErrorRows(),
		ErrorSummary:  job.ErrorSummary(),
		StartedAt:     job.StartedAt(),
		CompletedAt:   job.CompletedAt(),
		CreatedAt:     job.CreatedAt(),
	}
}

func toRowResponse(o *importjob.RowOutcome) rowResponse {
	var entityID *string
	if o.EntityID != nil {
		s := o.EntityID.String()
		entityID = &s
	}
	return rowResponse{
		RowNumber:    o.RowNumber,
		EntityType:   string(o.EntityType),
		EntityTitle:  o.EntityTitle,
		EntityID:     entityID,
		Action:       string(o.Action),
		Status:       string(o.Status),
		ErrorCode:    o.ErrorCode,
		ErrorMessage: o.ErrorMessage,
		Payload:      o.Payload,
		CreatedAt:    o.CreatedAt,
	}
}
