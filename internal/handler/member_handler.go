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

type MemberStore interface {
	List(ctx context.Context, f repository.MemberFilter) ([]model.Member, error)
	FindByID(ctx context.Context, id int) (*model.Member, error)
	Insert(ctx context.Context, m *model.Member) error
	Update(ctx context.Context, id int, patch model.MemberPatch) (*model.Member, error)
	Delete(ctx context.Context, id int) error
}

type MemberHandler struct {
	store  MemberStore
	logger *zap.Logger
}

func NewMemberHandler(store MemberStore, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{store: store, logger: logger}
}

func (h *MemberHandler) List(c *gin.Context) {
	year, ok := intQuery(c, "year")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	members, err := h.store.List(c.Request.Context(), repository.MemberFilter{
		Year: year,
		Team: c.Query("team"),
		Type: c.Query("type"),
	})
	if err != nil {
		h.logger.Error("List members failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	member, err := h.store.FindByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if err != nil {
		h.logger.Error("Get member failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch member"})
		return
	}

	c.JSON(http.StatusOK, member)
}

type createMemberRequest struct {
	Name     string      `json:"name" binding:"required"`
	Role     string      `json:"role" binding:"required"`
	Team     *string     `json:"team"`
	Type     string      `json:"type" binding:"required"`
	JoinDate *model.Date `json:"join_date"`
	Year     int         `json:"year" binding:"required"`
}

func (h *MemberHandler) Create(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member := model.Member{
		Name:     req.Name,
		Role:     req.Role,
		Team:     req.Team,
		Type:     req.Type,
		JoinDate: req.JoinDate,
		Year:     req.Year,
	}

	if err := h.store.Insert(c.Request.Context(), &member); err != nil {
		h.logger.Error("Create member failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create member"})
		return
	}

	metrics.IncrementEntityWrite("member", "create")
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	var patch model.MemberPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.store.Update(c.Request.Context(), id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if err != nil {
		h.logger.Error("Update member failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update member"})
		return
	}

	metrics.IncrementEntityWrite("member", "update")
	c.JSON(http.StatusOK, member)
}

// Delete removes a member. Tasks assigned to them survive with the
// assignment cleared.
func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	err := h.store.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}
	if err != nil {
		h.logger.Error("Delete member failed", zap.Int("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete member"})
		return
	}

	metrics.IncrementEntityWrite("member", "delete")
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}
