package models

import (
	"time"

	"github.com/google/uuid"
)

type Crop struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CropCode        string    `gorm:"index" json:"crop_code"`
	CropName        string    `gorm:"uniqueIndex" json:"crop_name"`
	WeightPerBushel float64   `json:"weight_per_bushel"`
	BaseMC          float64   `gorm:"column:base_mc" json:"base_mc"`
	CreatedAt       time.Time `json:"created_at"`
}
