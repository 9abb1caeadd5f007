package runner

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/model"
	"github.com/youthtrack/backend/internal/export/tracker"
)

type stubAggregator struct {
	docs  []model.AggregatedDocument
	err   error
	panic bool
}

func (s *stubAggregator) Aggregate(ctx context.Context, filter *domain.Filter) ([]model.AggregatedDocument, error) {
	if s.panic {
		panic("boom")
	}
	return s.docs, s.err
}

func newRunnerFixture(t *testing.T, agg *stubAggregator) (*Runner, *tracker.Tracker) {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	tr, err := tracker.New(t.TempDir(), logger)
	require.NoError(t, err)
	return New(agg, tr, logger), tr
}

func waitTerminal(t *testing.T, tr *tracker.Tracker, jobID string) *domain.JobStatus {
	t.Helper()
	var status *domain.JobStatus
	require.Eventually(t, func() bool {
		s, err := tr.Status(jobID)
		if err != nil {
			return false
		}
		status = s
		return s.Terminal()
	}, 5*time.Second, 10*time.Millisecond)
	return status
}

func TestRunner_CompletesJob(t *testing.T) {
	agg := &stubAggregator{
		docs: []model.AggregatedDocument{
			{Participant: model.Participant{ID: 1, FullName: "Abena Mensah"}},
		},
	}
	r, tr := newRunnerFixture(t, agg)

	job, err := tr.Create(domain.FormatJSON, "report")
	require.NoError(t, err)

	filter := &domain.Filter{}
	filter.Normalize()
	r.Launch(job, filter)

	status := waitTerminal(t, tr, job.ID)
	assert.Equal(t, domain.JobStatusCompleted, status.Status)
	assert.Positive(t, status.SizeBytes)
}

func TestRunner_AggregationFailureMarksFailed(t *testing.T) {
	agg := &stubAggregator{
		err: &domain.AggregationError{Query: "skills", Err: errors.New("connection reset")},
	}
	r, tr := newRunnerFixture(t, agg)

	job, err := tr.Create(domain.FormatCSV, "report")
	require.NoError(t, err)

	filter := &domain.Filter{}
	filter.Normalize()
	r.Launch(job, filter)

	status := waitTerminal(t, tr, job.ID)
	assert.Equal(t, domain.JobStatusFailed, status.Status)
	assert.Contains(t, status.Error, "skills")
}

func TestRunner_PanicStillReachesTerminalState(t *testing.T) {
	r, tr := newRunnerFixture(t, &stubAggregator{panic: true})

	job, err := tr.Create(domain.FormatCSV, "report")
	require.NoError(t, err)

	filter := &domain.Filter{}
	filter.Normalize()
	r.Launch(job, filter)

	status := waitTerminal(t, tr, job.ID)
	assert.Equal(t, domain.JobStatusFailed, status.Status)
	assert.Contains(t, status.Error, "export aborted")
}
