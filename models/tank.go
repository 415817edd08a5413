// models/tank.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tank holds one fuel type. CurrentStock is increased by deliveries; sales
// consumption is tracked on the StockMovement ledger (see stockmovement.go).
// Tank numbers are unique over the live set (partial index in migrations).
type Tank struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TankNumber     string         `gorm:"size:20;not null" json:"tankNumber"`
	FuelTypeID     uuid.UUID      `gorm:"type:uuid;not null" json:"fuelTypeId"`
	FuelType       FuelType       `gorm:"foreignKey:FuelTypeID" json:"fuelType,omitempty"`
	CapacityLitres float64        `gorm:"not null" json:"capacityLitres"`
	CurrentStock   float64        `gorm:"default:0" json:"currentStock"`
	ReorderLevel   float64        `gorm:"default:0" json:"reorderLevel"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Tank) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

// LowStock reports whether the tank has fallen to its reorder level.
func (t *Tank) LowStock() bool {
	return t.CurrentStock <= t.ReorderLevel
}
