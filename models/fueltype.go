// models/fueltype.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FuelType is the price list entry for one product. PricePerLitre is the
// live price; recorded sales keep their own snapshot of it.
type FuelType struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Code          string    `gorm:"size:10;uniqueIndex;not null" json:"code"`
	PricePerLitre float64   `gorm:"not null" json:"pricePerLitre"`
	IsActive      bool      `gorm:"default:true" json:"isActive"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (f *FuelType) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}
