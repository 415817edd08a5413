// models/nozzle.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Nozzle is a single outlet on a pump, bound to one fuel type. Nozzle
// identities are immutable once created: editing a pump's nozzle set
// retires the old rows (soft delete) and mints new ones, so sales and
// meter readings recorded against an old identity stay resolvable.
// Uniqueness of (pump, nozzle number) over the live set is enforced by a
// partial index in the migrations.
type Nozzle struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PumpID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"pumpId"`
	Pump         Pump           `gorm:"foreignKey:PumpID" json:"pump,omitempty"`
	NozzleNumber string         `gorm:"size:20;not null" json:"nozzleNumber"`
	FuelTypeID   uuid.UUID      `gorm:"type:uuid;not null" json:"fuelTypeId"`
	FuelType     FuelType       `gorm:"foreignKey:FuelTypeID" json:"fuelType,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (n *Nozzle) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return
}
