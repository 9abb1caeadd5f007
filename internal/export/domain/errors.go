package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned for status, download, or delete requests
	// naming a job id that was never issued.
	ErrJobNotFound = errors.New("export job not found")

	// ErrJobExists is returned when a job id collides with an existing
	// marker artifact.
	ErrJobExists = errors.New("export job already exists")

	// ErrJobNotTerminal is returned when an operation requires a finished
	// job but the job is still processing.
	ErrJobNotTerminal = errors.New("export job is still processing")

	// ErrArtifactNotReady is returned on download when no completed output
	// artifact exists for the job.
	ErrArtifactNotReady = errors.New("export artifact is not ready")
)

// AggregationError reports a failed primary or secondary query. It aborts
// the whole aggregation; partial document sets are never produced.
type AggregationError struct {
	Query string
	Err   error
}

func (e *AggregationError) Error() string {
	return fmt.Sprintf("aggregation failed on %s query: %v", e.Query, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

// SerializationError reports a format writer failure.
type SerializationError struct {
	Format string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("failed to serialize %s export: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
