// models/shift.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ShiftOpen   = "open"
	ShiftClosed = "closed"
)

// Shift is one attendant's bounded work session. A user has at most one
// open shift at a time; closed is terminal. The invariant is backed by a
// partial unique index on (user_id) where status = 'open', so two
// concurrent starts cannot both slip past the application check.
type Shift struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	User        User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ShiftDate   time.Time  `gorm:"not null;index" json:"shiftDate"`
	StartTime   time.Time  `gorm:"not null" json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	OpeningCash float64    `gorm:"default:0" json:"openingCash"`
	ClosingCash float64    `gorm:"default:0" json:"closingCash"`
	Status      string     `gorm:"size:10;not null;default:open;index" json:"status"`
	Notes       string     `gorm:"size:500" json:"notes"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (s *Shift) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
