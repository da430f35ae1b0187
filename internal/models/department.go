package models

import (
	"time"

	"github.com/google/uuid"
)

type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DptName   string    `gorm:"uniqueIndex:idx_department_grower_name" json:"dpt_name"`
	Contact   string    `json:"contact"`
	Manager   string    `json:"manager"`
	GrowerID  uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_department_grower_name;index" json:"grower_id"`
	CreatedAt time.Time `json:"created_at"`
}
