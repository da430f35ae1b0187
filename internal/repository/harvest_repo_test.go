package repository

import (
	"errors"
	"testing"
	"time"

	"grain-management-backend/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
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

	require.NoError(t, db.AutoMigrate(&models.Harvest{}, &models.Delivery{}))
	return db
}

func TestFindByJobAndLoad(t *testing.T) {
	db := testDB(t)
	repo := NewHarvestRepository(db)

	date := time.Date(2024, 10, 3, 0, 0, 0, 0, time.UTC)
	row := models.Harvest{
		ID:          uuid.New(),
		JobNumber:   1041,
		LoadNum:     "L100",
		HarvestDate: &date,
	}
	require.NoError(t, db.Create(&row).Error)

	got, err := repo.FindByJobAndLoad(1041, "L100")
	require.NoError(t, err)
	assert.Equal(t, row.ID, got.ID)

	// same load number under another job is a different row
	_, err = repo.FindByJobAndLoad(2077, "L100")
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestListInRangeIsInclusiveOfEndDate(t *testing.T) {
	db := testDB(t)
	repo := NewHarvestRepository(db)

	seed := map[string]time.Time{
		"L100": time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
		"L101": time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		"L102": time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC),
	}
	for loadNum, date := range seed {
		d := date
		require.NoError(t, db.Create(&models.Harvest{
			ID:          uuid.New(),
			JobNumber:   1041,
			LoadNum:     loadNum,
			HarvestDate: &d,
		}).Error)
	}

	rows, err := repo.ListInRange(
		time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 10, 2, 0, 0, 0, 0, time.UTC),
		nil,
	)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "L101", rows[0].LoadNum)
	assert.Equal(t, "L102", rows[1].LoadNum)
}
