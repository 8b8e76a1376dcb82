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

type TaskStore interface {
	List(ctx context.Context, f repository.TaskFilter) ([]model.Task, error)
	FindByID(ctx context.Context, id int) (*model.Task, error)
	Insert(ctx context.Context, t *model.Task) error
	Update(ctx context.Context, id int, patch model.TaskPatch) (*model.Task, error)
	Delete(ctx context.Context, id int) error
}

type TaskHandler struct {
	store      TaskStore
	milestones RefChecker
	members    RefChecker
	logger     *zap.Logger
}

func NewTaskHandler(store TaskStore, milestones, members RefChecker, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		store:      store,
		milestones: milestones,
		members:    members,
		logger:     logger,
	}
}

func (h *TaskHandler) List(c *gin.Context) {
	milestoneID, ok := intQuery(c, "milestone_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid milestone_id"})
		return
	}
	assigneeID, ok := intQuery(c, "assignee_id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignee_id"})
		return
	}

	tasks, err := h.store.List(c.Request.Context(), repository.TaskFilter{
		MilestoneID: milestoneID,
		AssigneeID:  assigneeID,
	})
	if err != nil {
		h.logger.Error("List tasks failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		h.logger.Error("Get task failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

type createTaskRequest struct {
	MilestoneID int         `json:"milestone_id" binding:"required"`
	Title       string      `json:"title" binding:"required"`
	Description *string     `json:"description"`
	AssigneeID  *int        `json:"assignee_id"`
	StartDate   *model.Date `json:"start_date"`
	DueDate     *model.Date `json:"due_date"`
	Progress    int         `json:"progress"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validProgress(req.Progress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be between 0 and 100"})
		return
	}

	exists, err := h.milestones.Exists(c.Request.Context(), req.MilestoneID)
	if err != nil {
		h.logger.Error("Milestone lookup failed", zap.Int("milestone_id", req.MilestoneID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		return
	}

	if req.AssigneeID != nil {
		exists, err := h.members.Exists(c.Request.Context(), *req.AssigneeID)
		if err != nil {
			h.logger.Error("Assignee lookup failed", zap.Int("assignee_id", *req.AssigneeID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignee not found"})
			return
		}
	}

	task := model.Task{
		MilestoneID: req.MilestoneID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		Progress:    req.Progress,
	}

	if err := h.store.Insert(c.Request.Context(), &task); err != nil {
		h.logger.Error("Create task failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	metrics.IncrementEntityWrite("task", "create")
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var patch model.TaskPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Progress != nil && !validProgress(*patch.Progress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "progress must be between 0 and 100"})
		return
	}

	// An assignee of zero clears the assignment; anything else must exist.
	if patch.AssigneeID != nil && *patch.AssigneeID != 0 {
		exists, err := h.members.Exists(c.Request.Context(), *patch.AssigneeID)
		if err != nil {
			h.logger.Error("Assignee lookup failed", zap.Int("assignee_id", *patch.AssigneeID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
			return
		}
		if !exists {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assignee not found"})
			return
		}
	}

	task, err := h.store.Update(c.Request.Context(), id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		h.logger.Error("Update task failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update task"})
		return
	}

	metrics.IncrementEntityWrite("task", "update")
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	if err != nil {
		h.logger.Error("Delete task failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete task"})
		return
	}

	metrics.IncrementEntityWrite("task", "delete")
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
