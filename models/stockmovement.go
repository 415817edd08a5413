// models/stockmovement.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MovementDelivery = "delivery"
	MovementSale     = "sale"
)

// StockMovement is the append-only ledger of litres into and out of a
// tank. Deliveries append a positive entry alongside the CurrentStock
// increment; sales append a negative entry without touching CurrentStock,
// so consumption stays observable and the true stock can be reconciled by
// folding the ledger over an opening balance.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TankID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tankId"`
	Kind      string    `gorm:"size:10;not null" json:"kind"`
	Litres    float64   `gorm:"not null" json:"litres"`
	RefID     uuid.UUID `gorm:"type:uuid;not null" json:"refId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}

// NetMovement folds a slice of movements into the net litres change.
func NetMovement(movements []StockMovement) float64 {
	var net float64
	for _, m := range movements {
		net += m.Litres
	}
	return net
}
