package handler

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
)

// Upload accepts a PDF document and stores it in the upload directory for
// later summarization.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF files are allowed."})
		return
	}

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	path := filepath.Join(h.uploadDir, strings.ReplaceAll(file.Filename, "/", "_"))
	if err := c.SaveUploadedFile(file, path); err != nil {
		logger.Errorw("failed to store upload", "filename", file.Filename, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	logger.Infow("document uploaded", "filename", file.Filename, "size", file.Size)
	c.JSON(http.StatusOK, gin.H{"filename": file.Filename, "path": path})
}
