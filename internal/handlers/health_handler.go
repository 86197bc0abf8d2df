package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lendtrack/lendtrack-api/internal/jobs"
)

type HealthHandler struct {
	worker *jobs.Worker
}

func NewHealthHandler(worker *jobs.Worker) *HealthHandler {
	return &HealthHandler{worker: worker}
}

func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "lendtrack-api",
		"version": "1.0.0",
		"worker":  h.worker.GetStats(),
	})
}
