package handler

import (
	"context"
	"errors"
	"net/http"

	"roadmap-service/internal/model"
	"roadmap-service/internal/repository"
	"roadmap-service/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MilestoneStore interface {
	List(ctx context.Context, goalID int) ([]model.Milestone, error)
	FindByID(ctx context.Context, id int) (*model.Milestone, error)
	Insert(ctx context.Context, m *model.Milestone) error
	Update(ctx context.Context, id int, patch model.MilestonePatch) (*model.Milestone, error)
	Delete(ctx context.Context, id int) error
}

type MilestoneHandler struct {
	store  MilestoneStore
	goals  RefChecker
	logger *zap.Logger
}

func NewMilestoneHandler(store MilestoneStore, goals RefChecker, logger *zap.Logger) *MilestoneHandler {
	return &MilestoneHandler{store: store, goals: goals, logger: logger}
}

func (h *MilestoneHandler) List(c *gin.Context) {
	goalID, ok := intQuery(c, "goal_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal_id"})
		return
	}

	milestones, err := h.store.List(c.Request.Context(), goalID)
	if err != nil {
		h.logger.Error("List milestones failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch milestones"})
		return
	}

	c.JSON(http.StatusOK, milestones)
}

func (h *MilestoneHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone id"})
		return
	}

	milestone, err := h.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}
	if err != nil {
		h.logger.Error("Get milestone failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch milestone"})
		return
	}

	c.JSON(http.StatusOK, milestone)
}

type createMilestoneRequest struct {
	GoalID      int         `json:"goal_id" binding:"required"`
	Title       string      `json:"title" binding:"required"`
	Description *string     `json:"description"`
	StartDate   *model.Date `json:"start_date"`
	DueDate     *model.Date `json:"due_date"`
	Progress    int         `json:"progress"`
}

func (h *MilestoneHandler) Create(c *gin.Context) {
	var req createMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validProgress(req.Progress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be between 0 and 100"})
		return
	}

	exists, err := h.goals.Exists(c.Request.Context(), req.GoalID)
	if err != nil {
		h.logger.Error("Goal lookup failed", zap.Int("goal_id", req.GoalID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create milestone"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}

	milestone := model.Milestone{
		GoalID:      req.GoalID,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Progress:    req.Progress,
	}

	if err := h.store.Insert(c.Request.Context(), &milestone); err != nil {
		h.logger.Error("Create milestone failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create milestone"})
		return
	}

	metrics.IncrementEntityWrite("milestone", "create")
	c.JSON(http.StatusOK, milestone)
}

func (h *MilestoneHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone id"})
		return
	}

	var patch model.MilestonePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Progress != nil && !validProgress(*patch.Progress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be between 0 and 100"})
		return
	}

	milestone, err := h.store.Update(c.Request.Context(), id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}
	if err != nil {
		h.logger.Error("Update milestone failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update milestone"})
		return
	}

	metrics.IncrementEntityWrite("milestone", "update")
	c.JSON(http.StatusOK, milestone)
}

func (h *MilestoneHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone id"})
		return
	}

	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}
	if err != nil {
		h.logger.Error("Delete milestone failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete milestone"})
		return
	}

	metrics.IncrementEntityWrite("milestone", "delete")
	c.JSON(http.StatusOK, gin.H{"message": "Milestone deleted successfully"})
}
