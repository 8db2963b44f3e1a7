package handler

import (
	"net/http"
	"strconv"

	domainerr "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/domain/port/usecase"
	"github.com/vleky/trailer-access/internal/domain/usecase/credential"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// CredentialHandler handles PIN issuance and lookup HTTP requests
type CredentialHandler struct {
	orchestrator usecase.CredentialOrchestrator
	logger       coreport.Logger
}

// NewCredentialHandler creates a new credential handler instance
func NewCredentialHandler(orchestrator usecase.CredentialOrchestrator, logger coreport.Logger) *CredentialHandler {
	return &CredentialHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// parseReservationID extracts and validates the reservation id path parameter
func parseReservationID(c *gin.Context) (uint64, bool) {
	reservationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || reservationID == 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidReservationID),
			Message: "Invalid reservation ID format",
		})
		return 0, false
	}
	return reservationID, true
}

// RefreshPin handles POST /api/reservations/:id/refreshPin. The previous
// pin is invalidated and a fresh one-time code issued from "now".
func (h *CredentialHandler) RefreshPin(c *gin.Context) {
	reservationID, ok := parseReservationID(c)
	if !ok {
		return
	}

	var req dto.RefreshPinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidTrailerID),
			Message: "Missing or invalid trailerId",
		})
		return
	}

	descriptor, err := h.orchestrator.IssueOrRefresh(c.Request.Context(), reservationID, req.TrailerID, usecase.CredentialWindow{
		WindowMinutes: req.WindowMinutes,
	})
	if err != nil {
		h.respondError(c, reservationID, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCredentialResponse(descriptor))
}

// CreatePin handles POST /api/reservations/createPin. Callers may supply an
// explicit [startAt, endAt) range; without one the default window from "now"
// applies.
func (h *CredentialHandler) CreatePin(c *gin.Context) {
	var req dto.CreatePinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Missing reservationId or trailerId",
		})
		return
	}

	// An explicit range needs both ends
	if (req.StartAt == nil) != (req.EndAt == nil) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidTimeWindow),
			Message: "startAt and endAt must be supplied together",
		})
		return
	}

	window := usecase.CredentialWindow{}
	if req.StartAt != nil && req.EndAt != nil {
		window.StartAt = *req.StartAt
		window.EndAt = *req.EndAt
	}

	descriptor, err := h.orchestrator.IssueOrRefresh(c.Request.Context(), req.ReservationID, req.TrailerID, window)
	if err != nil {
		h.respondError(c, req.ReservationID, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewCredentialResponse(descriptor))
}

// GetActivePin handles GET /api/reservations/:id/pin
func (h *CredentialHandler) GetActivePin(c *gin.Context) {
	reservationID, ok := parseReservationID(c)
	if !ok {
		return
	}

	descriptor, err := h.orchestrator.ReadActive(c.Request.Context(), reservationID)
	if err != nil {
		h.respondError(c, reservationID, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewActivePinResponse(descriptor))
}

func (h *CredentialHandler) respondError(c *gin.Context, reservationID uint64, err error) {
	status := credential.HTTPStatus(err)

	if status >= http.StatusInternalServerError {
		h.logger.Error("Credential operation failed", map[string]any{
			"reservation_id": reservationID,
			"error":          err.Error(),
		})
		c.JSON(status, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
		return
	}

	c.JSON(status, dto.ErrorResponse{
		Code:    domainerr.ErrorCode(err),
		Message: err.Error(),
	})
}
