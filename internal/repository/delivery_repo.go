package repository

import (
	"time"

	"grain-management-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Delivery rows are owned by the sale-entry workflow; this repository is
// read-only.
type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) ListInRange(start, end time.Time, cropID *uuid.UUID) ([]models.Delivery, error) {
	var rows []models.Delivery
	q := r.db.
		Where("delivery_date >= ? AND delivery_date < ?", start, end.AddDate(0, 0, 1)).
		Order("ticket_number ASC")
	if cropID != nil {
		q = q.Where("crop_id = ?", *cropID)
	}
	err := q.Find(&rows).Error
	return rows, err
}
