package models

import (
	"time"

	"github.com/google/uuid"
)

type Grower struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GrowerName string    `gorm:"uniqueIndex" json:"grower_name"`
	CreatedAt  time.Time `json:"created_at"`
}
