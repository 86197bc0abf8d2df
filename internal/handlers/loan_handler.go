package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack-api/internal/middleware"
	"github.com/lendtrack/lendtrack-api/internal/repository"
	"github.com/lendtrack/lendtrack-api/internal/services"
	"github.com/lendtrack/lendtrack-api/internal/statemachine"
)

type LoanHandler struct {
	loanService      *services.LoanService
	reconcileService *services.ReconciliationService
	analyticsService *services.AnalyticsService
}

func NewLoanHandler(loanService *services.LoanService, reconcileService *services.ReconciliationService, analyticsService *services.AnalyticsService) *LoanHandler {
	return &LoanHandler{
		loanService:      loanService,
		reconcileService: reconcileService,
		analyticsService: analyticsService,
	}
}

func (h *LoanHandler) Index(c *gin.Context) {
	query := repository.NewListQuery()
	query.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	query.PerPage, _ = strconv.Atoi(c.DefaultQuery("per_page", "20"))
	query.Filters["status"] = c.Query("status")
	query.Filters["borrower_id"] = c.Query("borrower_id")

	if sort := c.Query("sort"); sort != "" {
		parts := strings.Split(sort, "-")
		query.SortBy = parts[0]
		if len(parts) > 1 {
			query.SortDir = parts[1]
		}
	}

	loans, total, err := h.loanService.List(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]interface{}, 0, len(loans))
	for i := range loans {
		resp, err := h.loanService.BuildResponse(c.Request.Context(), &loans[i])
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		responses = append(responses, resp)
	}

	c.JSON(http.StatusOK, gin.H{
		"loans": responses,
		"pagination": gin.H{
			"page":        query.Page,
			"per_page":    query.PerPage,
			"total":       total,
			"total_pages": (total + int64(query.PerPage) - 1) / int64(query.PerPage),
		},
	})
}

func (h *LoanHandler) Show(c *gin.Context) {
	id, err := uuid.Parse(c.Param("loan_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	loan, err := h.loanService.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
		return
	}

	resp, err := h.loanService.BuildResponse(c.Request.Context(), loan)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loan": resp})
}

func (h *LoanHandler) Create(c *gin.Context) {
	var input services.CreateLoanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loan, err := h.loanService.Create(c.Request.Context(), &input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Borrower not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.analyticsService.InvalidateCache(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"loan": loan.ToResponse()})
}

type UpdateLoanRequest struct {
	Notes   *string `json:"notes"`
	DueDate string  `json:"due_date"`
}

func (h *LoanHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("loan_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	var req UpdateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loan, err := h.loanService.Update(c.Request.Context(), id, req.Notes, req.DueDate)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.analyticsService.InvalidateCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"loan": loan.ToResponse()})
}

func (h *LoanHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("loan_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	if err := h.loanService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.analyticsService.InvalidateCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Loan deleted"})
}

func (h *LoanHandler) Archive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("loan_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	loan, err := h.loanService.Archive(c.Request.Context(), id, middleware.GetUserID(c), c.ClientIP())
	if err != nil {
		if errors.Is(err, statemachine.ErrNotEligible) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Only fully paid loans can be archived"})
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.analyticsService.InvalidateCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"loan": loan.ToResponse(), "message": "Loan archived"})
}

func (h *LoanHandler) Projection(c *gin.Context) {
	id, err := uuid.Parse(c.Param("loan_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid loan ID"})
		return
	}

	projection, err := h.loanService.Projection(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Loan not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projection": projection})
}

// Reconcile triggers a synchronous reconciliation pass
func (h *LoanHandler) Reconcile(c *gin.Context) {
	changed, err := h.reconcileService.Run(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.analyticsService.InvalidateCache(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"changed": changed, "count": len(changed)})
}
