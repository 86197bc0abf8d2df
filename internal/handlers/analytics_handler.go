package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lendtrack/lendtrack-api/internal/services"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.analyticsService.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, overview)
}

func (h *AnalyticsHandler) Overdue(c *gin.Context) {
	loans, err := h.analyticsService.OverdueLoans(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]interface{}, 0, len(loans))
	for _, l := range loans {
		responses = append(responses, l.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"loans": responses})
}

func (h *AnalyticsHandler) Upcoming(c *gin.Context) {
	days := h.analyticsService.DefaultUpcomingWindow()
	if q := c.Query("days"); q != "" {
		days, _ = strconv.Atoi(q)
	}
	if days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be positive"})
		return
	}

	loans, err := h.analyticsService.UpcomingDueLoans(c.Request.Context(), days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	responses := make([]interface{}, 0, len(loans))
	for _, l := range loans {
		responses = append(responses, l.ToResponse())
	}

	c.JSON(http.StatusOK, gin.H{"loans": responses, "days": days})
}
