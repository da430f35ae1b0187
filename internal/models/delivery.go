package models

import (
	"time"

	"github.com/google/uuid"
)

// Delivery rows are written by the grain-sale entry workflow; this service
// only reads them. TicketNumber is numeric on this side but is compared as
// text against Harvest.LoadNum during reconciliation.
type Delivery struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TicketNumber int64     `gorm:"index" json:"ticket_number"`
	DeliveryDate time.Time `gorm:"index" json:"delivery_date"`
	MC           *float64  `gorm:"column:mc" json:"mc"`
	GrossWeight  *float64  `json:"gross_weight"`
	TareWeight   *float64  `json:"tare_weight"`
	Bushels      *float64  `json:"bushels"`
	UnitPrice    *float64  `json:"unit_price"`
	GrossSale    *float64  `json:"gross_sale"`
	Discounts    *float64  `json:"discounts"`

	CropID             uuid.UUID  `gorm:"type:uuid;index" json:"crop_id"`
	DeliveryLocationID *uuid.UUID `gorm:"type:uuid;index" json:"delivery_location_id"`

	CreatedAt time.Time `json:"created_at"`
}
