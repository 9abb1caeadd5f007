package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/dto"
	"github.com/youthtrack/backend/internal/export/serializer"
)

// CreateExport handles POST /api/v1/exports
// Accepts a filter payload, records the job as processing, and returns the
// job id without waiting for the export to run.
func (h *ExportHandler) CreateExport(c *gin.Context) {
	var req dto.CreateExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid export request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid export request: " + err.Error(),
		})
		return
	}

	filter := req.ToFilter()
	basename := req.Basename(h.defaultBasename)

	job, err := h.tracker.Create(req.Format, basename)
	if err != nil {
		h.logger.Error("Failed to create export job", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create export job",
		})
		return
	}

	h.logger.Info("Export requested",
		slog.String("job_id", job.ID),
		slog.String("format", job.Format),
		slog.String("sort_by", filter.SortBy),
		slog.Int("collections", filter.Include.Count()),
	)

	// The job id is observable before any query runs; the work proceeds
	// independently of this request.
	h.runner.Launch(job, filter)

	c.JSON(http.StatusAccepted, dto.CreateExportResponse{
		JobID:  job.ID,
		Status: domain.JobStatusProcessing,
	})
}

// GetExportStatus handles GET /api/v1/exports/:job_id
// Reports the job's current state, reconstructed from filesystem
// artifacts. Safe to call repeatedly.
func (h *ExportHandler) GetExportStatus(c *gin.Context) {
	jobID := c.Param("job_id")

	status, err := h.tracker.Status(jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Export job not found",
			})
			return
		}
		h.logger.Error("Failed to read export status",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read export status",
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromJobStatus(status))
}

// DownloadExport handles GET /api/v1/exports/:job_id/download
// Streams the completed artifact with a content type matching the format
// and a filename of <basename>-<jobId>.<ext>.
func (h *ExportHandler) DownloadExport(c *gin.Context) {
	jobID := c.Param("job_id")

	path, status, err := h.tracker.Open(jobID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrJobNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Export job not found",
			})
		case errors.Is(err, domain.ErrArtifactNotReady):
			c.JSON(http.StatusNotFound, gin.H{
				"error":  "Export artifact is not ready",
				"status": status.Status,
			})
		default:
			h.logger.Error("Failed to open export artifact",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to open export artifact",
			})
		}
		return
	}

	filename := fmt.Sprintf("%s-%s.%s", status.Basename, jobID, status.Format)
	c.Header("Content-Type", serializer.ContentTypeFor(status.Format))
	c.FileAttachment(path, filename)
}

// ListExports handles GET /api/v1/exports
// Lists all known export jobs, newest first.
func (h *ExportHandler) ListExports(c *gin.Context) {
	statuses, err := h.tracker.List()
	if err != nil {
		h.logger.Error("Failed to list export jobs", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to list export jobs",
		})
		return
	}

	resp := dto.ListExportsResponse{
		Exports: make([]dto.ExportStatusResponse, len(statuses)),
	}
	for i := range statuses {
		resp.Exports[i] = dto.FromJobStatus(&statuses[i])
	}

	c.JSON(http.StatusOK, resp)
}

// DeleteExport handles DELETE /api/v1/exports/:job_id
// Removes the artifacts of a terminal job.
func (h *ExportHandler) DeleteExport(c *gin.Context) {
	jobID := c.Param("job_id")

	if err := h.tracker.Delete(jobID); err != nil {
		switch {
		case errors.Is(err, domain.ErrJobNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Export job not found",
			})
		case errors.Is(err, domain.ErrJobNotTerminal):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Export job is still processing",
			})
		default:
			h.logger.Error("Failed to delete export job",
				slog.String("job_id", jobID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete export job",
			})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
