package models

import (
	"time"

	"github.com/google/uuid"
)

// Harvest is one cart-load of grain taken out of a field. The pair
// (JobNumber, LoadNum) identifies a load across re-imports of the same
// equipment export, so it carries the unique index rather than ID.
type Harvest struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JobNumber   int        `gorm:"uniqueIndex:idx_harvest_job_load" json:"job_number"`
	LoadNum     string     `gorm:"uniqueIndex:idx_harvest_job_load" json:"load_num"`
	HarvestDate *time.Time `json:"harvest_date"`
	MC          *float64   `gorm:"column:mc" json:"mc"`
	GrossWeight *float64   `json:"gross_weight"`
	TareWeight  float64    `json:"tare_weight"`
	WetBushels  *float64   `json:"wet_bushels"`
	DryBushels  *float64   `json:"dry_bushels"`
	Note        *string    `json:"note"`

	CartID    uuid.UUID `gorm:"type:uuid;index" json:"cart_id"`
	FieldID   uuid.UUID `gorm:"type:uuid;index" json:"field_id"`
	CropID    uuid.UUID `gorm:"type:uuid;index" json:"crop_id"`
	DptID     uuid.UUID `gorm:"type:uuid;index" json:"dpt_id"`
	StorLocID uuid.UUID `gorm:"type:uuid;index" json:"stor_loc_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
