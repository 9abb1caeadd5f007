package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/handler"
	"github.com/youthtrack/backend/internal/export/model"
	"github.com/youthtrack/backend/internal/export/router"
	"github.com/youthtrack/backend/internal/export/runner"
	"github.com/youthtrack/backend/internal/export/tracker"
)

type stubAggregator struct {
	docs []model.AggregatedDocument
	err  error
}

func (s *stubAggregator) Aggregate(ctx context.Context, filter *domain.Filter) ([]model.AggregatedDocument, error) {
	return s.docs, s.err
}

func newTestServer(t *testing.T, agg runner.Aggregator) (*gin.Engine, *tracker.Tracker) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.DiscardHandler)
	tr, err := tracker.New(t.TempDir(), logger)
	require.NoError(t, err)

	deps := &handler.Dependencies{
		Logger:  logger,
		Tracker: tr,
		Runner:  runner.New(agg, tr, logger),
	}
	return router.SetupRouter(deps), tr
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createExport(t *testing.T, r *gin.Engine, body map[string]any) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/exports", body)
	require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())

	var resp struct {
		JobID  string `json:"jobId"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.JobID)
	require.Equal(t, domain.JobStatusProcessing, resp.Status)
	return resp.JobID
}

func waitForStatus(t *testing.T, r *gin.Engine, jobID, want string) map[string]any {
	t.Helper()
	var last map[string]any
	require.Eventually(t, func() bool {
		w := doJSON(r, http.MethodGet, "/api/v1/exports/"+jobID, nil)
		if w.Code != http.StatusOK {
			return false
		}
		last = map[string]any{}
		if err := json.Unmarshal(w.Body.Bytes(), &last); err != nil {
			return false
		}
		return last["status"] == want
	}, 5*time.Second, 10*time.Millisecond)
	return last
}

func sampleDocs() []model.AggregatedDocument {
	return []model.AggregatedDocument{
		{
			Participant: model.Participant{ID: 1, FullName: "Abena Mensah", District: "Bekwai", Age: 21},
			Education: []model.EducationRecord{
				{ID: 10, YouthID: 1, SchoolName: "Bekwai SDA SHS", Qualification: "WASSCE"},
			},
		},
		{
			Participant: model.Participant{ID: 2, FullName: "Kofi Owusu", District: "Bekwai", Age: 23},
			Education:   []model.EducationRecord{},
		},
	}
}

func TestCreateExport_ReturnsJobBeforeCompletion(t *testing.T) {
	r, _ := newTestServer(t, &stubAggregator{docs: sampleDocs()})

	jobID := createExport(t, r, map[string]any{
		"format":  "csv",
		"filters": map[string]any{"district": []string{"Bekwai"}, "minAge": 20, "maxAge": 24},
		"include": map[string]any{"education": true},
	})

	status := waitForStatus(t, r, jobID, domain.JobStatusCompleted)
	assert.Equal(t, "csv", status["format"])
	assert.Greater(t, status["sizeBytes"], float64(0))
	assert.NotEmpty(t, status["createdAt"])
}

func TestCreateExport_UnknownSortBySucceeds(t *testing.T) {
	r, _ := newTestServer(t, &stubAggregator{docs: sampleDocs()})

	jobID := createExport(t, r, map[string]any{
		"format": "json",
		"sortBy": "zzz",
	})

	waitForStatus(t, r, jobID, domain.JobStatusCompleted)
}

func TestCreateExport_InvalidFormatRejectedSynchronously(t *testing.T) {
	r, tr := newTestServer(t, &stubAggregator{})

	w := doJSON(r, http.MethodPost, "/api/v1/exports", map[string]any{"format": "pdf"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// No job id was issued.
	statuses, err := tr.List()
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestCreateExport_MissingFormatRejected(t *testing.T) {
	r, _ := newTestServer(t, &stubAggregator{})

	w := doJSON(r, http.MethodPost, "/api/v1/exports", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetExportStatus_FailedJobReportsError(t *testing.T) {
	agg := &stubAggregator{
		err: &domain.AggregationError{Query: "education", Err: fmt.Errorf("connection reset")},
	}
	r, _ := newTestServer(t, agg)

	jobID := createExport(t, r, map[string]any{
		"format":  "csv",
		"include": map[string]any{"education": true},
	})

	status := waitForStatus(t, r, jobID, domain.JobStatusFailed)
	assert.Contains(t, status["error"], "education")
}

func TestGetExportStatus_UnknownJob(t *testing.T) {
	r, _ := newTestServer(t, &stubAggregator{})

	w := doJSON(r, http.MethodGet, "/api/v1/exports/export-1-deadbeef", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadExport(t *testing.T) {
	r, _ := newTestServer(t, &stubAggregator{docs: sampleDocs()})

	jobID := createExport(t, r, map[string]any{
		"format":   "csv",
		"filename": "bekwai cohort",
		"include":  map[string]any{"education": true},
	})
	waitForStatus(t, r, jobID, domain.JobStatusCompleted)

	w := doJSON(r, http.MethodGet, "/api/v1/exports/"+jobID+"/download", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"),
		fmt.Sprintf("bekwai-cohort-%s.csv", jobID))
	assert.NotZero(t, w.Body.Len())
}

func TestDownloadExport_NotReady(t *testing.T) {
	r, tr := newTestServer(t, &stubAggregator{})

	// A job that exists but has not finished: create the marker directly
	// without launching a runner.
	job, err := tr.Create(domain.FormatCSV, "report")
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/api/v1/exports/"+job.ID+"/download", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), domain.JobStatusProcessing)
}

func TestListAndDeleteExports(t *testing.T) {
	r, _ := newTestServer(t, &stubAggregator{docs: sampleDocs()})

	jobID := createExport(t, r, map[string]any{"format": "json"})
	waitForStatus(t, r, jobID, domain.JobStatusCompleted)

	w := doJSON(r, http.MethodGet, "/api/v1/exports", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Exports []map[string]any `json:"exports"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Exports, 1)
	assert.Equal(t, jobID, list.Exports[0]["jobId"])

	w = doJSON(r, http.MethodDelete, "/api/v1/exports/"+jobID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/exports/"+jobID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
