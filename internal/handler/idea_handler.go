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

type IdeaStore interface {
	List(ctx context.Context, f repository.IdeaFilter) ([]model.Idea, error)
	FindByID(ctx context.Context, id int) (*model.Idea, error)
	Insert(ctx context.Context, i *model.Idea) error
	Update(ctx context.Context, id int, patch model.IdeaPatch) (*model.Idea, error)
	Delete(ctx context.Context, id int) error
	ConvertToGoal(ctx context.Context, ideaID int) (*model.Goal, error)
}

type CommentStore interface {
	ListByIdea(ctx context.Context, ideaID int) ([]model.Comment, error)
	Insert(ctx context.Context, c *model.Comment) error
	Delete(ctx context.Context, id int) error
}

type IdeaHandler struct {
	store    IdeaStore
	comments CommentStore
	logger   *zap.Logger
}

func NewIdeaHandler(store IdeaStore, comments CommentStore, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{store: store, comments: comments, logger: logger}
}

func (h *IdeaHandler) List(c *gin.Context) {
	year, ok := intQuery(c, "year")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	ideas, err := h.store.List(c.Request.Context(), repository.IdeaFilter{
		Year:    year,
		Status:  c.Query("status"),
		Product: c.Query("product"),
	})
	if err != nil {
		h.logger.Error("List ideas failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch ideas"})
		return
	}

	c.JSON(http.StatusOK, ideas)
}

func (h *IdeaHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	idea, err := h.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}
	if err != nil {
		h.logger.Error("Get idea failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch idea"})
		return
	}

	c.JSON(http.StatusOK, idea)
}

type createIdeaRequest struct {
	Type        string  `json:"type" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Year        int     `json:"year" binding:"required"`
	Product     *string `json:"product"`
}

// Create registers a new idea. Fresh ideas always start open with no
// priority; both are adjusted later through Update.
func (h *IdeaHandler) Create(c *gin.Context) {
	var req createIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	idea := model.Idea{
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
		Product:     req.Product,
		Priority:    model.PriorityNone,
		Status:      model.IdeaStatusOpen,
	}

	if err := h.store.Insert(c.Request.Context(), &idea); err != nil {
		h.logger.Error("Create idea failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create idea"})
		return
	}

	metrics.IncrementEntityWrite("idea", "create")
	c.JSON(http.StatusOK, idea)
}

func (h *IdeaHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	var patch model.IdeaPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// The converted status is reserved for the promotion operation.
	if patch.Status != nil && *patch.Status == model.IdeaStatusConverted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status cannot be set to converted directly"})
		return
	}

	idea, err := h.store.Update(c.Request.Context(), id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}
	if err != nil {
		h.logger.Error("Update idea failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update idea"})
		return
	}

	metrics.IncrementEntityWrite("idea", "update")
	c.JSON(http.StatusOK, idea)
}

func (h *IdeaHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}
	if err != nil {
		h.logger.Error("Delete idea failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete idea"})
		return
	}

	metrics.IncrementEntityWrite("idea", "delete")
	c.JSON(http.StatusOK, gin.H{"message": "Idea deleted successfully"})
}

// Convert promotes an idea into a goal.
func (h *IdeaHandler) Convert(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	goal, err := h.store.ConvertToGoal(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
		return
	}
	if errors.Is(err, repository.ErrAlreadyConverted) {
		c.JSON(http.StatusConflict, gin.H{"error": "Idea already converted to goal"})
		return
	}
	if err != nil {
		h.logger.Error("Convert idea failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to convert idea"})
		return
	}

	metrics.IncrementIdeaConverted()
	c.JSON(http.StatusOK, goal)
}

func (h *IdeaHandler) ListComments(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	if _, err := h.store.FindByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return
		}
		h.logger.Error("Idea lookup failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch comments"})
		return
	}

	comments, err := h.comments.ListByIdea(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("List comments failed", zap.Int("idea_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

type createCommentRequest struct {
	Author  string `json:"author" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *IdeaHandler) CreateComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.FindByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found"})
			return
		}
		h.logger.Error("Idea lookup failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	comment := model.Comment{
		IdeaID:  id,
		Author:  req.Author,
		Content: req.Content,
	}

	if err := h.comments.Insert(c.Request.Context(), &comment); err != nil {
		h.logger.Error("Create comment failed", zap.Int("idea_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create comment"})
		return
	}

	metrics.IncrementEntityWrite("comment", "create")
	c.JSON(http.StatusOK, comment)
}

func (h *IdeaHandler) DeleteComment(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	err := h.comments.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if err != nil {
		h.logger.Error("Delete comment failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete comment"})
		return
	}

	metrics.IncrementEntityWrite("comment", "delete")
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
