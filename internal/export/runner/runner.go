package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/model"
	"github.com/youthtrack/backend/internal/export/serializer"
	"github.com/youthtrack/backend/internal/export/tracker"
)

// Aggregator assembles the hierarchical document set for a filter.
type Aggregator interface {
	Aggregate(ctx context.Context, filter *domain.Filter) ([]model.AggregatedDocument, error)
}

// Runner executes one export job in the background: aggregate, serialize
// to the tracker's staging path, then record the terminal state. The
// triggering request has already returned by the time run starts.
type Runner struct {
	aggregator Aggregator
	tracker    *tracker.Tracker
	logger     *slog.Logger
}

func New(aggregator Aggregator, tr *tracker.Tracker, logger *slog.Logger) *Runner {
	return &Runner{
		aggregator: aggregator,
		tracker:    tr,
		logger:     logger,
	}
}

// Launch starts the job as a fire-and-forget task. There is no pool, no
// timeout, and no cancellation path: once processing, the job runs to a
// terminal state even if the client goes away.
func (r *Runner) Launch(job *domain.Job, filter *domain.Filter) {
	go r.run(context.Background(), job, filter)
}

func (r *Runner) run(ctx context.Context, job *domain.Job, filter *domain.Filter) {
	start := time.Now()

	// A panic anywhere below must still land the job in a terminal state,
	// otherwise its id would read as processing forever.
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Export job panicked",
				slog.String("job_id", job.ID),
				slog.Any("panic", rec),
			)
			r.tracker.Fail(job, fmt.Errorf("export aborted: %v", rec))
		}
	}()

	r.logger.Info("Export job started",
		slog.String("job_id", job.ID),
		slog.String("format", job.Format),
		slog.Int("collections", filter.Include.Count()),
	)

	docs, err := r.aggregator.Aggregate(ctx, filter)
	if err != nil {
		r.logger.Error("Export aggregation failed",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		r.tracker.Fail(job, err)
		return
	}

	s, err := serializer.ForFormat(job.Format)
	if err != nil {
		r.tracker.Fail(job, err)
		return
	}

	meta := serializer.Metadata{
		Title:       job.Basename,
		GeneratedAt: time.Now().UTC(),
		Filter:      filter,
	}

	if err := s.Write(r.tracker.StagingPath(job), docs, meta); err != nil {
		serr := &domain.SerializationError{Format: job.Format, Err: err}
		r.logger.Error("Export serialization failed",
			slog.String("job_id", job.ID),
			slog.String("error", serr.Error()),
		)
		r.tracker.Fail(job, serr)
		return
	}

	if err := r.tracker.Complete(job); err != nil {
		r.tracker.Fail(job, err)
		return
	}

	r.logger.Info("Export job finished",
		slog.String("job_id", job.ID),
		slog.Int("records", len(docs)),
		slog.Duration("elapsed", time.Since(start)),
	)
}
