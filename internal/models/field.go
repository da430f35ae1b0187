package models

import (
	"time"

	"github.com/google/uuid"
)

type Field struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FieldName     string    `gorm:"uniqueIndex:idx_field_dpt_name_year" json:"field_name"`
	Acres         *float64  `json:"acres"`
	CropYear      int       `gorm:"uniqueIndex:idx_field_dpt_name_year" json:"crop_year"`
	IrrType       *string   `json:"irr_type"`
	HybridVariety *string   `json:"hybrid_variety"`
	Note          *string   `json:"note"`
	DptID         uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_field_dpt_name_year;index" json:"dpt_id"`
	CreatedAt     time.Time `json:"created_at"`
}
