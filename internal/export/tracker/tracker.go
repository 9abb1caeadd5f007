package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/youthtrack/backend/internal/export/domain"
)

// Artifact name suffixes. Everything the tracker knows about a job is a
// file keyed by the job id, so status survives process restarts and is
// observable from any request.
const (
	markerSuffix  = ".job"
	errorSuffix   = ".error"
	stagingSuffix = ".tmp"
)

// Job ids double as filenames; anything outside this charset is treated as
// unknown rather than resolved against the filesystem.
var jobIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)

// Tracker persists export-job state as filesystem artifacts: a marker file
// written at accept time, the output artifact renamed into place on
// completion, and an error sentinel on failure. Concurrent jobs never
// contend on a path because every artifact is keyed by a unique job id.
type Tracker struct {
	dir    string
	logger *slog.Logger
}

func New(dir string, logger *slog.Logger) (*Tracker, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export output directory: %w", err)
	}
	return &Tracker{
		dir:    dir,
		logger: logger,
	}, nil
}

// marker is the durable record of an accepted job.
type marker struct {
	ID        string    `json:"jobId"`
	Format    string    `json:"format"`
	Basename  string    `json:"basename"`
	CreatedAt time.Time `json:"createdAt"`
}

// newJobID builds a timestamp-derived token with a random suffix so
// concurrent requests in the same millisecond never collide.
func newJobID() string {
	return fmt.Sprintf("export-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

// Create accepts a new export job: it allocates an id and durably records
// the job as processing before returning. The returned job is immediately
// observable via Status.
func (t *Tracker) Create(format, basename string) (*domain.Job, error) {
	job := &domain.Job{
		ID:        newJobID(),
		Format:    format,
		Basename:  basename,
		CreatedAt: time.Now().UTC(),
	}

	file, err := os.OpenFile(t.markerPath(job.ID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, domain.ErrJobExists
		}
		return nil, fmt.Errorf("failed to create job marker: %w", err)
	}
	defer file.Close()

	m := marker{ID: job.ID, Format: job.Format, Basename: job.Basename, CreatedAt: job.CreatedAt}
	if err := json.NewEncoder(file).Encode(m); err != nil {
		return nil, fmt.Errorf("failed to write job marker: %w", err)
	}

	t.logger.Info("Export job accepted",
		slog.String("job_id", job.ID),
		slog.String("format", job.Format),
	)

	return job, nil
}

// StagingPath is where a serializer writes the output before the job is
// marked completed. The staged file only becomes visible to status checks
// once Complete renames it.
func (t *Tracker) StagingPath(job *domain.Job) string {
	return t.artifactPath(job.ID, job.Format) + stagingSuffix
}

// Complete records the terminal completed state by renaming the staged
// artifact into place. The rename is the transition: before it the job
// reads as processing, after it as completed.
func (t *Tracker) Complete(job *domain.Job) error {
	staged := t.StagingPath(job)
	final := t.artifactPath(job.ID, job.Format)

	if err := os.Rename(staged, final); err != nil {
		return fmt.Errorf("failed to publish export artifact: %w", err)
	}

	t.logger.Info("Export job completed",
		slog.String("job_id", job.ID),
		slog.String("artifact", final),
	)

	return nil
}

// Fail records the terminal failed state as an error sentinel holding the
// message, so a later status check can report the failure without any
// in-memory state. Any staged partial output is discarded.
func (t *Tracker) Fail(job *domain.Job, failure error) {
	_ = os.Remove(t.StagingPath(job))

	message := "export failed"
	if failure != nil {
		message = failure.Error()
	}

	if err := os.WriteFile(t.errorPath(job.ID), []byte(message), 0o644); err != nil {
		t.logger.Error("Failed to write error sentinel",
			slog.String("job_id", job.ID),
			slog.Any("error", err),
		)
		return
	}

	t.logger.Warn("Export job failed",
		slog.String("job_id", job.ID),
		slog.String("reason", message),
	)
}

// Status reconstructs a job's current state purely from filesystem
// artifacts: a completed output implies completed, an error sentinel
// implies failed, a bare marker implies still processing, and no marker at
// all means the id was never issued.
func (t *Tracker) Status(jobID string) (*domain.JobStatus, error) {
	m, err := t.readMarker(jobID)
	if err != nil {
		return nil, err
	}

	status := &domain.JobStatus{
		ID:        m.ID,
		Status:    domain.JobStatusProcessing,
		Format:    m.Format,
		Basename:  m.Basename,
		CreatedAt: m.CreatedAt,
	}

	if info, err := os.Stat(t.artifactPath(jobID, m.Format)); err == nil {
		status.Status = domain.JobStatusCompleted
		status.SizeBytes = info.Size()
		return status, nil
	}

	if message, err := os.ReadFile(t.errorPath(jobID)); err == nil {
		status.Status = domain.JobStatusFailed
		status.Error = strings.TrimSpace(string(message))
		return status, nil
	}

	return status, nil
}

// Open resolves the completed artifact for download. It returns
// ErrArtifactNotReady while the job is processing or failed, and
// ErrJobNotFound for unknown ids.
func (t *Tracker) Open(jobID string) (string, *domain.JobStatus, error) {
	status, err := t.Status(jobID)
	if err != nil {
		return "", nil, err
	}
	if status.Status != domain.JobStatusCompleted {
		return "", status, domain.ErrArtifactNotReady
	}
	return t.artifactPath(jobID, status.Format), status, nil
}

// List returns the status of every known job, newest first.
func (t *Tracker) List() ([]domain.JobStatus, error) {
	markers, err := filepath.Glob(filepath.Join(t.dir, "*"+markerSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to scan job markers: %w", err)
	}

	statuses := make([]domain.JobStatus, 0, len(markers))
	for _, path := range markers {
		jobID := strings.TrimSuffix(filepath.Base(path), markerSuffix)
		status, err := t.Status(jobID)
		if err != nil {
			// A marker removed between glob and read just drops out.
			continue
		}
		statuses = append(statuses, *status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].CreatedAt.After(statuses[j].CreatedAt)
	})

	return statuses, nil
}

// Delete removes every artifact of a terminal job. Jobs still processing
// are refused: their background task would otherwise resurrect partial
// state.
func (t *Tracker) Delete(jobID string) error {
	status, err := t.Status(jobID)
	if err != nil {
		return err
	}
	if !status.Terminal() {
		return domain.ErrJobNotTerminal
	}

	for _, path := range []string{
		t.artifactPath(jobID, status.Format),
		t.errorPath(jobID),
		t.markerPath(jobID),
	} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	t.logger.Info("Export job deleted",
		slog.String("job_id", jobID),
	)

	return nil
}

func (t *Tracker) readMarker(jobID string) (*marker, error) {
	if !jobIDPattern.MatchString(jobID) {
		return nil, domain.ErrJobNotFound
	}

	raw, err := os.ReadFile(t.markerPath(jobID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to read job marker: %w", err)
	}

	var m marker
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to parse job marker: %w", err)
	}
	return &m, nil
}

func (t *Tracker) markerPath(jobID string) string {
	return filepath.Join(t.dir, jobID+markerSuffix)
}

func (t *Tracker) errorPath(jobID string) string {
	return filepath.Join(t.dir, jobID+errorSuffix)
}

func (t *Tracker) artifactPath(jobID, format string) string {
	return filepath.Join(t.dir, jobID+"."+format)
}
