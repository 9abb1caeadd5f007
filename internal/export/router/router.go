package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/youthtrack/backend/internal/export/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if deps.DB != nil {
			if err := deps.DB.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "participant-export-service",
					"error":   err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "participant-export-service",
		})
	})

	exportHandler := handler.NewExportHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		exports := v1.Group("/exports")
		{
			// POST /api/v1/exports - Start a new export job
			exports.POST("", exportHandler.CreateExport)

			// GET /api/v1/exports - List export jobs
			exports.GET("", exportHandler.ListExports)

			// GET /api/v1/exports/:job_id - Poll job status
			exports.GET("/:job_id", exportHandler.GetExportStatus)

			// GET /api/v1/exports/:job_id/download - Download the artifact
			exports.GET("/:job_id/download", exportHandler.DownloadExport)

			// DELETE /api/v1/exports/:job_id - Remove a finished job
			exports.DELETE("/:job_id", exportHandler.DeleteExport)
		}
	}

	return r
}
