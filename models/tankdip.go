// models/tankdip.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TankDip is a manual stock verification reading (dip stick + temperature).
// Dips are an independent audit trail and never change CurrentStock.
type TankDip struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TankID       uuid.UUID `gorm:"type:uuid;not null;index" json:"tankId"`
	Tank         Tank      `gorm:"foreignKey:TankID" json:"tank,omitempty"`
	DipReading   float64   `gorm:"not null" json:"dipReading"`
	Temperature  *float64  `json:"temperature"`
	RecordedDate time.Time `gorm:"not null" json:"recordedDate"`
	RecordedBy   uuid.UUID `gorm:"type:uuid;not null" json:"recordedBy"`
	Notes        string    `gorm:"size:500" json:"notes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (d *TankDip) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
