package models

import (
	"time"

	"github.com/google/uuid"
)

// BinCode is stored normalized (uppercase, alphanumeric only); BinName keeps
// the operator-facing spelling.
type StorageLocation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BinCode     string    `gorm:"uniqueIndex" json:"bin_code"`
	BinName     string    `json:"bin_name"`
	BinCapacity float64   `gorm:"not null" json:"bin_capacity"`
	CreatedAt   time.Time `json:"created_at"`
}
