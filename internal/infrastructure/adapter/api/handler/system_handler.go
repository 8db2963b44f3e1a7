package handler

import (
	"net/http"

	domainerr "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/domain/port/provider"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/api/dto"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
)

// SystemHandler serves the device inventory and health endpoints
type SystemHandler struct {
	accessProvider provider.AccessProvider
	dbManager      *database.Manager
	logger         coreport.Logger
}

// NewSystemHandler creates a new system handler instance
func NewSystemHandler(
	accessProvider provider.AccessProvider,
	dbManager *database.Manager,
	logger coreport.Logger,
) *SystemHandler {
	return &SystemHandler{
		accessProvider: accessProvider,
		dbManager:      dbManager,
		logger:         logger,
	}
}

// ListDevices handles GET /api/devices. It proxies the provider's device
// inventory so an admin can find device ids to bind to trailers.
func (h *SystemHandler) ListDevices(c *gin.Context) {
	devices, err := h.accessProvider.ListDevices(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list provider devices", map[string]any{
			"error": err.Error(),
		})
		status := http.StatusBadGateway
		if !domainerr.IsProviderError(err) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Failed to fetch devices from lock provider",
		})
		return
	}

	if devices == nil {
		devices = []provider.Device{}
	}
	c.JSON(http.StatusOK, gin.H{"devices": devices})
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := h.dbManager.WithTimeout(c.Request.Context())
	defer cancel()

	sqlDB, err := h.dbManager.DB().DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.logger.Error("Health check failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "reachable",
	})
}
