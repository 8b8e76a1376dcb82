package handler

import (
	"context"
	"net/http"

	"roadmap-service/internal/service/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DashboardService interface {
	Summary(ctx context.Context, year int) (*dashboard.Summary, error)
	Years(ctx context.Context) ([]int, error)
	GanttRows(ctx context.Context, year int) ([]dashboard.GanttRow, error)
	MemberSummary(ctx context.Context, year int) (*dashboard.MemberSummary, error)
}

type DashboardHandler struct {
	service DashboardService
	logger  *zap.Logger
}

func NewDashboardHandler(service DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: logger}
}

func (h *DashboardHandler) Summary(c *gin.Context) {
	year, ok := intQuery(c, "year")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), year)
	if err != nil {
		h.logger.Error("Dashboard summary failed", zap.Int("year", year), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *DashboardHandler) Years(c *gin.Context) {
	years, err := h.service.Years(c.Request.Context())
	if err != nil {
		h.logger.Error("Year listing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list years"})
		return
	}

	c.JSON(http.StatusOK, years)
}

func (h *DashboardHandler) GanttData(c *gin.Context) {
	year, ok := intQuery(c, "year")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	rows, err := h.service.GanttRows(c.Request.Context(), year)
	if err != nil {
		h.logger.Error("Gantt data failed", zap.Int("year", year), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build gantt data"})
		return
	}

	c.JSON(http.StatusOK, rows)
}

func (h *DashboardHandler) MembersSummary(c *gin.Context) {
	year, ok := intQuery(c, "year")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}

	summary, err := h.service.MemberSummary(c.Request.Context(), year)
	if err != nil {
		h.logger.Error("Member summary failed", zap.Int("year", year), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute member summary"})
		return
	}

	c.JSON(http.StatusOK, summary)
}
