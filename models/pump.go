// models/pump.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pump is a dispensing unit on the forecourt. Pumps are retired with a
// soft delete so historical readings and sales keep valid references.
type Pump struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	PumpNumber string         `gorm:"size:20;not null" json:"pumpNumber"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	Nozzles    []Nozzle       `gorm:"foreignKey:PumpID" json:"nozzles,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

func (p *Pump) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
