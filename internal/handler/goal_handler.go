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

type GoalStore interface {
	List(ctx context.Context, f repository.GoalFilter) ([]model.Goal, error)
	FindByID(ctx context.Context, id int) (*model.Goal, error)
	Insert(ctx context.Context, g *model.Goal) error
	Update(ctx context.Context, id int, patch model.GoalPatch) (*model.Goal, error)
	Delete(ctx context.Context, id int) error
}

type GoalHandler struct {
	store  GoalStore
	logger *zap.Logger
}

func NewGoalHandler(store GoalStore, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{store: store, logger: logger}
}

func (h *GoalHandler) List(c *gin.Context) {
	year, ok := intQuery(c, "year")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	filter := repository.GoalFilter{
		Year:    year,
		Quarter: c.Query("quarter"),
		Team:    c.Query("team"),
		Product: c.Query("product"),
		Type:    c.Query("type"),
	}

	goals, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("List goals failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch goals"})
		return
	}

	c.JSON(http.StatusOK, goals)
}

func (h *GoalHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	goal, err := h.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	if err != nil {
		h.logger.Error("Get goal failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch goal"})
		return
	}

	c.JSON(http.StatusOK, goal)
}

type createGoalRequest struct {
	Type           string      `json:"type" binding:"required"`
	Title          string      `json:"title" binding:"required"`
	Description    *string     `json:"description"`
	ExpectedEffect *string     `json:"expected_effect"`
	Year           int         `json:"year" binding:"required"`
	Quarter        *string     `json:"quarter"`
	Team           *string     `json:"team"`
	Product        *string     `json:"product"`
	Progress       int         `json:"progress"`
	StartDate      *model.Date `json:"start_date"`
	EndDate        *model.Date `json:"end_date"`
}

func (h *GoalHandler) Create(c *gin.Context) {
	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validProgress(req.Progress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be between 0 and 100"})
		return
	}

	goal := model.Goal{
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
		ExpectedEffect: req.ExpectedEffect,
		Year:           req.Year,
		Quarter:        req.Quarter,
		Team:           req.Team,
		Product:        req.Product,
		Progress:       req.Progress,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
	}

	if err := h.store.Insert(c.Request.Context(), &goal); err != nil {
		h.logger.Error("Create goal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create goal"})
		return
	}

	metrics.IncrementEntityWrite("goal", "create")
	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	var patch model.GoalPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Progress != nil && !validProgress(*patch.Progress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be between 0 and 100"})
		return
	}

	goal, err := h.store.Update(c.Request.Context(), id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	if err != nil {
		h.logger.Error("Update goal failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update goal"})
		return
	}

	metrics.IncrementEntityWrite("goal", "update")
	c.JSON(http.StatusOK, goal)
}

func (h *GoalHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Goal not found"})
		return
	}
	if err != nil {
		h.logger.Error("Delete goal failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete goal"})
		return
	}

	metrics.IncrementEntityWrite("goal", "delete")
	c.JSON(http.StatusOK, gin.H{"message": "Goal deleted successfully"})
}
