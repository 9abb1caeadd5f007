package domain

import "time"

// Export job states. A job moves pending -> processing when the request is
// accepted, then to exactly one terminal state. Terminal states are
// filesystem facts and never mutate.
const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Job identifies one accepted export request.
type Job struct {
	ID        string    `json:"jobId"`
	Format    string    `json:"format"`
	Basename  string    `json:"basename"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobStatus is the client-visible state of a job, reconstructed from
// filesystem artifacts alone.
type JobStatus struct {
	ID        string
	Status    string
	Format    string
	Basename  string
	SizeBytes int64
	CreatedAt time.Time
	Error     string
}

// Terminal reports whether the job has finished, successfully or not.
func (s *JobStatus) Terminal() bool {
	return s.Status == JobStatusCompleted || s.Status == JobStatusFailed
}
