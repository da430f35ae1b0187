package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grain-management-backend/internal/config"
	"grain-management-backend/internal/models"
	"grain-management-backend/internal/routes"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Grower{},
		&models.Department{},
		&models.Field{},
		&models.Crop{},
		&models.StorageLocation{},
		&models.Cart{},
		&models.Harvest{},
		&models.Delivery{},
		&models.IngestionRun{},
	))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	r := gin.New()
	routes.RegisterRoutes(r, db, config.DefaultIngestion(), logger)
	return r, db
}

func TestHealth(t *testing.T) {
	r, _ := testRouter(t)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/health", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestReconcileRejectsBadFilters(t *testing.T) {
	r, _ := testRouter(t)

	for _, url := range []string{
		"/api/reconciliation",
		"/api/reconciliation?start=2024-10-01",
		"/api/reconciliation?start=oct-1&end=2024-10-31",
		"/api/reconciliation?start=2024-10-01&end=2024-10-31&crop_id=corn",
		"/api/reconciliation?start=2024-10-31&end=2024-10-01",
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, url, nil)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}

func TestReconcileReturnsSummaryAndDetail(t *testing.T) {
	r, db := testRouter(t)

	day := time.Date(2024, time.October, 3, 0, 0, 0, 0, time.UTC)
	gross := 52000.0
	bushels := 100.0
	require.NoError(t, db.Create(&models.Harvest{
		ID:          uuid.New(),
		JobNumber:   1041,
		LoadNum:     "100",
		HarvestDate: &day,
		GrossWeight: &gross,
		TareWeight:  2000,
		DryBushels:  &bushels,
		CropID:      uuid.New(),
	}).Error)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/reconciliation?start=2024-10-01&end=2024-10-31", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Summary struct {
			Harvest struct {
				Loads   int     `json:"loads"`
				Bushels float64 `json:"bushels"`
			} `json:"harvest"`
		} `json:"summary"`
		Detail []struct {
			LoadKey string `json:"load_key"`
			Tag     string `json:"tag"`
		} `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Summary.Harvest.Loads)
	assert.Equal(t, 100.0, body.Summary.Harvest.Bushels)
	require.Len(t, body.Detail, 1)
	assert.Equal(t, "100", body.Detail[0].LoadKey)
	assert.Equal(t, "matched", body.Detail[0].Tag)
}
