package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lendtrack/lendtrack-api/internal/services"
)

// importMaxBytes caps uploaded CSV files
const importMaxBytes = 10 << 20

type ExportHandler struct {
	exportService *services.ExportService
	importService *services.ImportService
}

func NewExportHandler(exportService *services.ExportService, importService *services.ImportService) *ExportHandler {
	return &ExportHandler{exportService: exportService, importService: importService}
}

func (h *ExportHandler) LoansCSV(c *gin.Context) {
	data, err := h.exportService.LoansCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("loans_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *ExportHandler) LoansXLSX(c *gin.Context) {
	data, err := h.exportService.LoansXLSX(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("loans_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *ExportHandler) PaymentsCSV(c *gin.Context) {
	data, err := h.exportService.PaymentsCSV(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("payments_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", data)
}

func (h *ExportHandler) ImportLoans(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A CSV file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, importMaxBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}

	result, err := h.importService.LoansCSV(c.Request.Context(), data)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}
