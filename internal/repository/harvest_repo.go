package repository

import (
	"time"

	"grain-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HarvestRepository struct {
	db *gorm.DB
}

func NewHarvestRepository(db *gorm.DB) *HarvestRepository {
	return &HarvestRepository{db: db}
}

// ListInRange returns harvest rows whose harvest date falls inside the
// inclusive calendar range, optionally filtered by crop.
func (r *HarvestRepository) ListInRange(start, end time.Time, cropID *uuid.UUID) ([]models.Harvest, error) {
	var rows []models.Harvest
	q := r.db.
		Where("harvest_date >= ? AND harvest_date < ?", start, end.AddDate(0, 0, 1)).
		Order("load_num ASC")
	if cropID != nil {
		q = q.Where("crop_id = ?", *cropID)
	}
	err := q.Find(&rows).Error
	return rows, err
}

// FindByJobAndLoad fetches one harvest row by its idempotency key.
func (r *HarvestRepository) FindByJobAndLoad(jobNumber int, loadNum string) (*models.Harvest, error) {
	var h models.Harvest
	err := r.db.Where("job_number = ? AND load_num = ?", jobNumber, loadNum).First(&h).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}
