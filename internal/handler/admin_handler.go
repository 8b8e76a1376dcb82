package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminStore interface {
	ResetAll(ctx context.Context) error
}

// AdminHandler serves the destructive test-only endpoints. The router only
// mounts it when test endpoints are enabled in config.
type AdminHandler struct {
	store  AdminStore
	logger *zap.Logger
}

func NewAdminHandler(store AdminStore, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{store: store, logger: logger}
}

func (h *AdminHandler) ResetAll(c *gin.Context) {
	if err := h.store.ResetAll(c.Request.Context()); err != nil {
		h.logger.Error("Reset all data failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All data has been deleted"})
}
