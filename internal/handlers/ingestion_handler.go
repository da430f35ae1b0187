package handler

import (
	"net/http"

	ingestion "grain-management-backend/internal/services/ingestion"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IngestionHandler struct {
	service *ingestion.Service
}

func NewIngestionHandler(s *ingestion.Service) *IngestionHandler {
	return &IngestionHandler{service: s}
}

// RunBatch ingests every export file in the configured folder (or the folder
// named in the body) and returns the per-file report.
func (h *IngestionHandler) RunBatch(c *gin.Context) {
	var payload struct {
		Folder string `json:"folder"`
	}
	// body is optional; an empty folder falls back to the configured one
	_ = c.ShouldBindJSON(&payload)

	report, err := h.service.RunFolder(payload.Folder)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Upload ingests a single export file posted as multipart form data. A
// rejected file still answers 200 with the skip reason in the result.
func (h *IngestionHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	result := h.service.IngestFile(header.Filename, file)
	c.JSON(http.StatusOK, result)
}

func (h *IngestionHandler) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run ID"})
		return
	}

	run, err := h.service.GetRun(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}
