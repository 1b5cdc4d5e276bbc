package handlers

import (
	"errors"
	"net/http"

	"esyncify/internal/api/middleware"
	"esyncify/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type JobHandler struct {
	store  *store.Store
	logger zerolog.Logger
}

func NewJobHandler(st *store.Store, logger zerolog.Logger) *JobHandler {
	return &JobHandler{store: st, logger: logger}
}

// Get reports a job's progress counters and its imports.
func (h *JobHandler) Get(c *gin.Context) {
	shop := middleware.ShopFromContext(c)
	id := c.Param("id")

	job, err := h.store.GetJob(id)
	if err != nil {
		h.logger.Error().Err(err).Str("job_id", id).Msg("failed to fetch job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		return
	}
	// Jobs are only visible to the shop that owns them.
	if job == nil || job.ShopDomain != shop.Domain {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found."})
		return
	}

	imports, err := h.store.ImportsForJob(job.ID)
	if err != nil {
		h.logger.Error().Err(err).Str("job_id", id).Msg("failed to fetch imports")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch imports"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job": job, "imports": imports})
}

// Cancel stops an ongoing job. Only QUEUED or PROCESSING jobs can be
// cancelled; the worker notices the status change and leaves the remaining
// imports PENDING.
func (h *JobHandler) Cancel(c *gin.Context) {
	shop := middleware.ShopFromContext(c)
	id := c.Param("id")

	job, err := h.store.GetJob(id)
	if err != nil {
		h.logger.Error().Err(err).Str("job_id", id).Msg("failed to fetch job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch job"})
		return
	}
	if job == nil || job.ShopDomain != shop.Domain {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found."})
		return
	}

	cancelled, err := h.store.CancelJob(id)
	if err != nil {
		var notCancellable *store.NotCancellableError
		if errors.As(err, &notCancellable) {
			c.JSON(http.StatusBadRequest, gin.H{"error": notCancellable.Error()})
			return
		}
		h.logger.Error().Err(err).Str("job_id", id).Msg("failed to cancel job")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel job"})
		return
	}

	h.logger.Info().Str("job_id", id).Msg("job cancelled")
	c.JSON(http.StatusOK, gin.H{"success": true, "job": cancelled})
}
