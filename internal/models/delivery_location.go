package models

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryLocation struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	LocationName string    `gorm:"uniqueIndex" json:"location_name"`
	City         string    `json:"city"`
	CreatedAt    time.Time `json:"created_at"`
}
