// models/pumpreading.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReadingOpening = "opening"
	ReadingClosing = "closing"
)

// PumpReading is a cumulative meter reading on a nozzle, taken at shift
// start or end. One reading of each type per (shift, nozzle).
type PumpReading struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShiftID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shift_nozzle_type" json:"shiftId"`
	NozzleID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_shift_nozzle_type" json:"nozzleId"`
	Nozzle       Nozzle    `gorm:"foreignKey:NozzleID" json:"nozzle,omitempty"`
	ReadingType  string    `gorm:"size:10;not null;uniqueIndex:idx_shift_nozzle_type" json:"readingType"`
	MeterReading float64   `gorm:"not null" json:"meterReading"`
	RecordedBy   uuid.UUID `gorm:"type:uuid;not null" json:"recordedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (p *PumpReading) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
