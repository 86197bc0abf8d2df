package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/middleware"
	"github.com/lendtrack/lendtrack-api/internal/models"
	"github.com/lendtrack/lendtrack-api/internal/services"
	"github.com/lendtrack/lendtrack-api/internal/statemachine"
)

type AdvanceHandler struct {
	advanceService *services.AdvanceService
}

func NewAdvanceHandler(advanceService *services.AdvanceService) *AdvanceHandler {
	return &AdvanceHandler{advanceService: advanceService}
}

func (h *AdvanceHandler) Index(c *gin.Context) {
	var (
		list []models.Advance
		err  error
	)
	if c.Query("overdue") == "true" {
		list, err = h.advanceService.Overdue(c.Request.Context())
	} else {
		list, err = h.advanceService.FindAll(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]interface{}, 0, len(list))
	for _, a := range list {
		responses = append(responses, a.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"advances": responses})
}

func (h *AdvanceHandler) Show(c *gin.Context) {
	id, err := uuid.Parse(c.Param("advance_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid advance ID"})
		return
	}

	advance, err := h.advanceService.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Advance not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"advance": advance.ToResponse()})
}

func (h *AdvanceHandler) Create(c *gin.Context) {
	var input services.CreateAdvanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	advance, err := h.advanceService.Create(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"advance": advance.ToResponse()})
}

func (h *AdvanceHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("advance_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid advance ID"})
		return
	}

	advance, err := h.advanceService.Settle(c.Request.Context(), id, middleware.GetUserID(c), c.ClientIP())
	if err != nil {
		if errors.Is(err, statemachine.ErrNotActive) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Advance is already settled"})
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Advance not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"advance": advance.ToResponse(), "message": "Advance settled"})
}
