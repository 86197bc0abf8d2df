package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/internal/services"
)

type BorrowerHandler struct {
	borrowerService *services.BorrowerService
}

func NewBorrowerHandler(borrowerService *services.BorrowerService) *BorrowerHandler {
	return &BorrowerHandler{borrowerService: borrowerService}
}

func (h *BorrowerHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Search = c.Query("search")

	borrowers, total, err := h.borrowerService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]interface{}, 0, len(borrowers))
	for _, b := range borrowers {
		responses = append(responses, b.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{
		"borrowers": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

func (h *BorrowerHandler) Show(c *gin.Context) {
	id, err := uuid.Parse(c.Param("borrower_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid borrower ID"})
		return
	}

	borrower, err := h.borrowerService.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"borrower": borrower.ToResponse()})
}

func (h *BorrowerHandler) Create(c *gin.Context) {
	var input services.CreateBorrowerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	borrower, err := h.borrowerService.Create(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"borrower": borrower.ToResponse()})
}

func (h *BorrowerHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("borrower_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid borrower ID"})
		return
	}

	var input services.CreateBorrowerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	borrower, err := h.borrowerService.Update(c.Request.Context(), id, &input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"borrower": borrower.ToResponse()})
}

func (h *BorrowerHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("borrower_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid borrower ID"})
		return
	}

	if err := h.borrowerService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrBorrowerHasDebt) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Borrower still has loans or advances"})
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Borrower deleted"})
}
