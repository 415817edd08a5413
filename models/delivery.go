// models/delivery.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Delivery is a supplier drop into a tank, identified by the challan
// (delivery receipt) number. Applying a delivery increments the tank's
// CurrentStock and appends a StockMovement, all in one transaction.
type Delivery struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TankID          uuid.UUID `gorm:"type:uuid;not null;index" json:"tankId"`
	Tank            Tank      `gorm:"foreignKey:TankID" json:"tank,omitempty"`
	ChallanNumber   string    `gorm:"size:50;not null" json:"challanNumber"`
	LitresDelivered float64   `gorm:"not null" json:"litresDelivered"`
	DeliveryDate    time.Time `gorm:"not null;index" json:"deliveryDate"`
	SupplierName    string    `gorm:"size:100" json:"supplierName"`
	Notes           string    `gorm:"size:500" json:"notes"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null" json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (d *Delivery) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}
