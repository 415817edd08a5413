// models/sale.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentCredit = "credit"
)

// Sale is one dispensing event recorded against an open shift. The derived
// fields are frozen at creation: LitresDispensed is the meter delta and
// PricePerLitre is the fuel type's price at the moment of sale, so later
// price changes never rewrite history.
type Sale struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ShiftID         uuid.UUID `gorm:"type:uuid;not null;index" json:"shiftId"`
	Shift           Shift     `gorm:"foreignKey:ShiftID" json:"shift,omitempty"`
	NozzleID        uuid.UUID `gorm:"type:uuid;not null" json:"nozzleId"`
	Nozzle          Nozzle    `gorm:"foreignKey:NozzleID" json:"nozzle,omitempty"`
	OpeningReading  float64   `gorm:"not null" json:"openingReading"`
	ClosingReading  float64   `gorm:"not null" json:"closingReading"`
	LitresDispensed float64   `gorm:"not null" json:"litresDispensed"`
	PricePerLitre   float64   `gorm:"not null" json:"pricePerLitre"`
	TotalAmount     float64   `gorm:"not null" json:"totalAmount"`
	PaymentMethod   string    `gorm:"size:10;not null;index" json:"paymentMethod"`
	CreatedBy       uuid.UUID `gorm:"type:uuid;not null" json:"createdBy"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentCredit:
		return true
	}
	return false
}
