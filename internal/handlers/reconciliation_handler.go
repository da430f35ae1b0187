package handler

import (
	"net/http"
	"time"

	service "grain-management-backend/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ReconciliationHandler struct {
	service *service.Service
}

func NewReconciliationHandler(s *service.Service) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// Reconcile answers GET /api/reconciliation?start=YYYY-MM-DD&end=YYYY-MM-DD
// with an optional crop_id filter. Bad filters are the caller's problem
// (400); anything past validation is a server failure.
func (h *ReconciliationHandler) Reconcile(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected YYYY-MM-DD"})
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, expected YYYY-MM-DD"})
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start date is after end date"})
		return
	}

	var cropID *uuid.UUID
	if raw := c.Query("crop_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid crop ID"})
			return
		}
		cropID = &id
	}

	result, err := h.service.Reconcile(start, end, cropID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
