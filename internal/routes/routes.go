package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"grain-management-backend/internal/config"
	handler "grain-management-backend/internal/handlers"
	"grain-management-backend/internal/repository"
	ingestion "grain-management-backend/internal/services/ingestion"
	reconciliation "grain-management-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Ingestion, logger *logrus.Logger) {
	harvestRepo := repository.NewHarvestRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	ingestionService := ingestion.NewService(db, cfg, logger)
	reconciliationService := reconciliation.NewService(harvestRepo, deliveryRepo, logger)

	ingestionHandler := handler.NewIngestionHandler(ingestionService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Equipment export ingestion
	ing := api.Group("/ingestion")
	ing.POST("/run", ingestionHandler.RunBatch)
	ing.POST("/upload", ingestionHandler.Upload)
	ing.GET("/runs/:id", ingestionHandler.GetRun)

	// Harvest vs delivery reconciliation
	api.GET("/reconciliation", reconciliationHandler.Reconcile)
}
