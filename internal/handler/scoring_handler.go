package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/pjbl-tracker-api/internal/dto"
	"github.com/noah-isme/pjbl-tracker-api/internal/service"
	appErrors "github.com/noah-isme/pjbl-tracker-api/pkg/errors"
	"github.com/noah-isme/pjbl-tracker-api/pkg/jobs"
	"github.com/noah-isme/pjbl-tracker-api/pkg/response"
)

// ScoringHandler exposes scoring, roll-up, and recompute endpoints.
type ScoringHandler struct {
	scoring      *service.ScoringService
	rollups      *service.RollupService
	batch        *service.BatchService
	streaks      *service.StreakService
	queue        *jobs.Queue
	asyncDefault bool
	logger       *zap.Logger
}

// NewScoringHandler constructs handler. queue may be nil, in which case
// recompute requests always run synchronously regardless of asyncDefault.
func NewScoringHandler(scoring *service.ScoringService, rollups *service.RollupService, batch *service.BatchService, streaks *service.StreakService, queue *jobs.Queue, asyncDefault bool, logger *zap.Logger) *ScoringHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScoringHandler{
		scoring:      scoring,
		rollups:      rollups,
		batch:        batch,
		streaks:      streaks,
		queue:        queue,
		asyncDefault: asyncDefault,
		logger:       logger,
	}
}

// ScoreSubmission godoc
// @Summary Score one submission
// @Tags Scoring
// @Produce json
// @Param id path string true "Submission id"
// @Success 200 {object} response.Envelope
// @Router /scoring/submissions/{id} [post]
func (h *ScoringHandler) ScoreSubmission(c *gin.Context) {
	result, err := h.scoring.ScoreSubmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// StudentRollup godoc
// @Summary Student dimension roll-up
// @Tags Scoring
// @Produce json
// @Param id path string true "Student id"
// @Param projectId query string true "Project id"
// @Success 200 {object} response.Envelope
// @Router /scoring/students/{id} [get]
func (h *ScoringHandler) StudentRollup(c *gin.Context) {
	result, err := h.rollups.StudentDimensionScores(c.Request.Context(), c.Param("id"), c.Query("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ClassRollup godoc
// @Summary Class dimension roll-up
// @Tags Scoring
// @Produce json
// @Param id path string true "Class id"
// @Param projectId query string true "Project id"
// @Success 200 {object} response.Envelope
// @Router /scoring/classes/{id} [get]
func (h *ScoringHandler) ClassRollup(c *gin.Context) {
	result, err := h.rollups.ClassDimensionScores(c.Request.Context(), c.Param("id"), c.Query("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Recompute godoc
// @Summary Recompute project scores
// @Tags Scoring
// @Accept json
// @Produce json
// @Param payload body dto.RecomputeRequest true "Recompute scope"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Router /scoring/recompute [post]
func (h *ScoringHandler) Recompute(c *gin.Context) {
	var req dto.RecomputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if (req.Async || h.asyncDefault) && h.queue != nil {
		jobID := uuid.NewString()
		err := h.queue.Enqueue(jobs.Job{
			ID:       jobID,
			Type:     "scoring.recompute",
			Payload:  req,
			Enqueued: time.Now(),
		})
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue recompute"))
			return
		}
		h.logger.Info("recompute enqueued",
			zap.String("job_id", jobID),
			zap.String("project_id", req.ProjectID),
		)
		response.Accepted(c, gin.H{"jobId": jobID, "projectId": req.ProjectID})
		return
	}

	result, err := h.batch.RecomputeBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// StudentStreak godoc
// @Summary Student trailing submission streak
// @Tags Students
// @Produce json
// @Param id path string true "Student id"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/streak [get]
func (h *ScoringHandler) StudentStreak(c *gin.Context) {
	result, err := h.streaks.StudentStreak(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
