package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lendtrack/lendtrack-api/internal/services"
)

// backupMaxBytes caps uploaded backup blobs
const backupMaxBytes = 50 << 20

type BackupHandler struct {
	backupService *services.BackupService
}

func NewBackupHandler(backupService *services.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

func (h *BackupHandler) Export(c *gin.Context) {
	passphrase := c.GetHeader("X-Backup-Passphrase")
	if passphrase == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Backup-Passphrase header is required"})
		return
	}

	blob, err := h.backupService.Export(c.Request.Context(), passphrase)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("lendtrack_backup_%s.bin", time.Now().Format("2006-01-02_150405"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/octet-stream", blob)
}

func (h *BackupHandler) Restore(c *gin.Context) {
	passphrase := c.GetHeader("X-Backup-Passphrase")
	if passphrase == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-Backup-Passphrase header is required"})
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A backup file is required"})
		return
	}
	defer file.Close()

	blob, err := io.ReadAll(io.LimitReader(file, backupMaxBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}

	inserted, err := h.backupService.Restore(c.Request.Context(), blob, passphrase)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}
