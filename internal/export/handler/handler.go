package handler

import (
	"log/slog"

	"github.com/youthtrack/backend/internal/export/runner"
	"github.com/youthtrack/backend/internal/export/tracker"
	"github.com/youthtrack/backend/shared/postgresql"
)

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger          *slog.Logger
	DB              *postgresql.Client // optional, enables database health reporting
	Tracker         *tracker.Tracker
	Runner          *runner.Runner
	DefaultBasename string
}

// ExportHandler handles export-related HTTP requests
type ExportHandler struct {
	logger          *slog.Logger
	tracker         *tracker.Tracker
	runner          *runner.Runner
	defaultBasename string
}

// NewExportHandler creates a new ExportHandler instance
func NewExportHandler(deps *Dependencies) *ExportHandler {
	basename := deps.DefaultBasename
	if basename == "" {
		basename = "participants-export"
	}
	return &ExportHandler{
		logger:          deps.Logger,
		tracker:         deps.Tracker,
		runner:          deps.Runner,
		defaultBasename: basename,
	}
}
