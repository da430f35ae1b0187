package main

import (
	"log"
	"os"
	"time"

	"grain-management-backend/internal/config"
	"grain-management-backend/internal/models"
	"grain-management-backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	db := config.InitDB()

	db.AutoMigrate(
		&models.Grower{},
		&models.Department{},
		&models.Field{},
		&models.Crop{},
		&models.StorageLocation{},
		&models.Cart{},
		&models.DeliveryLocation{},
		&models.Harvest{},
		&models.Delivery{},
		&models.IngestionRun{},
	)

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, config.DefaultIngestion(), config.GetLogger())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
