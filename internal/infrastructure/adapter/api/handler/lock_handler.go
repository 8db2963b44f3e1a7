package handler

import (
	"errors"
	"net/http"
	"strconv"

	domainerr "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/domain/port/usecase"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// LockHandler handles lock-binding HTTP requests
type LockHandler struct {
	registry usecase.LockRegistry
	logger   coreport.Logger
}

// NewLockHandler creates a new lock handler instance
func NewLockHandler(registry usecase.LockRegistry, logger coreport.Logger) *LockHandler {
	return &LockHandler{
		registry: registry,
		logger:   logger,
	}
}

// parseTrailerID extracts and validates the trailer id path parameter
func parseTrailerID(c *gin.Context) (uint64, bool) {
	trailerID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || trailerID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidTrailerID),
			Message: "Invalid trailer ID format",
		})
		return 0, false
	}
	return trailerID, true
}

// Assign handles POST /api/trailers/:id/lock
func (h *LockHandler) Assign(c *gin.Context) {
	trailerID, ok := parseTrailerID(c)
	if !ok {
		return
	}

	var req dto.AssignLockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid lock assignment request format", map[string]any{
			"trailer_id": trailerID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidDeviceID),
			Message: "Missing or invalid device_id",
		})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	result, err := h.registry.Assign(c.Request.Context(), usecase.AssignLockRequest{
		TrailerID: trailerID,
		Provider:  req.Provider,
		DeviceID:  req.DeviceID,
		Name:      req.Name,
		Active:    active,
		Force:     req.Force,
	})

	if err != nil {
		var conflict *domainerr.LockConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, dto.LockConflictResponse{
				Error:    "LOCK_ALREADY_ASSIGNED",
				Provider: conflict.Provider,
				DeviceID: conflict.DeviceID,
				CurrentTrailer: dto.ConflictTrailer{
					ID:   conflict.CurrentTrailerID,
					Name: conflict.CurrentTrailerName,
				},
			})
			return
		}

		h.respondError(c, trailerID, err)
		return
	}

	c.JSON(http.StatusOK, dto.AssignLockResponse{
		OK:    true,
		Lock:  dto.NewLockResponse(result.Lock),
		Moved: result.Moved,
	})
}

// Get handles GET /api/trailers/:id/lock
func (h *LockHandler) Get(c *gin.Context) {
	trailerID, ok := parseTrailerID(c)
	if !ok {
		return
	}

	lock, err := h.registry.Get(c.Request.Context(), trailerID)
	if err != nil {
		h.respondError(c, trailerID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"lock": dto.NewLockResponse(lock)})
}

// Remove handles DELETE /api/trailers/:id/lock
func (h *LockHandler) Remove(c *gin.Context) {
	trailerID, ok := parseTrailerID(c)
	if !ok {
		return
	}

	deleted, err := h.registry.Remove(c.Request.Context(), trailerID)
	if err != nil {
		h.respondError(c, trailerID, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteLockResponse{OK: true, Deleted: deleted})
}

func (h *LockHandler) respondError(c *gin.Context, trailerID uint64, err error) {
	switch {
	case domainerr.IsValidationError(err):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
	case domainerr.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: err.Error(),
		})
	default:
		h.logger.Error("Lock operation failed", map[string]any{
			"trailer_id": trailerID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
	}
}
