package models

import (
	"time"

	"github.com/google/uuid"
)

type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CartCode  string    `gorm:"uniqueIndex" json:"cart_code"`
	CartName  string    `json:"cart_name"`
	CreatedAt time.Time `json:"created_at"`
}
