package handler

import (
	"net/http"

	"github.com/vleky/trailer-access/internal/domain/entity"
	domainerr "github.com/vleky/trailer-access/internal/domain/error"
	coreport "github.com/vleky/trailer-access/internal/domain/port/core"
	"github.com/vleky/trailer-access/internal/domain/usecase/trailers"
	"github.com/vleky/trailer-access/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// TrailerHandler handles trailer CRUD HTTP requests
type TrailerHandler struct {
	service *trailers.Service
	logger  coreport.Logger
}

// NewTrailerHandler creates a new trailer handler instance
func NewTrailerHandler(service *trailers.Service, logger coreport.Logger) *TrailerHandler {
	return &TrailerHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /api/trailers
func (h *TrailerHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]dto.TrailerResponse, 0, len(items))
	for _, t := range items {
		responses = append(responses, dto.NewTrailerResponse(t))
	}
	c.JSON(http.StatusOK, responses)
}

// Get handles GET /api/trailers/:id
func (h *TrailerHandler) Get(c *gin.Context) {
	trailerID, ok := parseTrailerID(c)
	if !ok {
		return
	}

	trailer, err := h.service.Get(c.Request.Context(), trailerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTrailerResponse(trailer))
}

// Create handles POST /api/trailers
func (h *TrailerHandler) Create(c *gin.Context) {
	var req dto.TrailerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	trailer := &entity.Trailer{Name: req.Name}
	applyTrailerRequest(trailer, &req)

	created, err := h.service.Create(c.Request.Context(), trailer)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewTrailerResponse(created))
}

// Update handles PUT /api/trailers/:id
func (h *TrailerHandler) Update(c *gin.Context) {
	trailerID, ok := parseTrailerID(c)
	if !ok {
		return
	}

	var req dto.TrailerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(domainerr.ErrInvalidRequest),
			Message: "Invalid request format: " + err.Error(),
		})
		return
	}

	updated, err := h.service.Update(c.Request.Context(), trailerID, func(t *entity.Trailer) {
		if req.Name != "" {
			t.Name = req.Name
		}
		applyTrailerRequest(t, &req)
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTrailerResponse(updated))
}

// Delete handles DELETE /api/trailers/:id
func (h *TrailerHandler) Delete(c *gin.Context) {
	trailerID, ok := parseTrailerID(c)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(c.Request.Context(), trailerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// applyTrailerRequest copies the optional fields that were present in the
// request onto the entity
func applyTrailerRequest(t *entity.Trailer, req *dto.TrailerRequest) {
	if req.TotalWeightKg != nil {
		t.TotalWeightKg = req.TotalWeightKg
	}
	if req.PayloadKg != nil {
		t.PayloadKg = req.PayloadKg
	}
	if req.BedWidthM != nil {
		t.BedWidthM = req.BedWidthM
	}
	if req.BedLengthM != nil {
		t.BedLengthM = req.BedLengthM
	}
	if req.Cover != nil {
		t.Cover = *req.Cover
	}
	if req.Location != nil {
		t.Location = *req.Location
	}
	if req.Lat != nil {
		t.Lat = req.Lat
	}
	if req.Lng != nil {
		t.Lng = req.Lng
	}
	if req.PricePerDayCZK != nil {
		t.PricePerDayCZK = req.PricePerDayCZK
	}
	if req.OwnerName != nil {
		t.OwnerName = *req.OwnerName
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Photos != nil {
		t.Photos = req.Photos
	}
}

func (h *TrailerHandler) respondError(c *gin.Context, err error) {
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
		h.logger.Error("Trailer operation failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    domainerr.ErrorCode(err),
			Message: "Internal server error",
		})
	}
}
