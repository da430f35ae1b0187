package ingestion

import (
	"io"
	"testing"

	"grain-management-backend/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// a single in-memory connection, or the pool sees different databases
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
		&models.DeliveryLocation{},
		&models.Harvest{},
		&models.Delivery{},
		&models.IngestionRun{},
	))
	return db
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
