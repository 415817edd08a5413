// middleware/scope.go
package middleware

import (
	"net/http"

	"gorm.io/gorm"
	"p9e.in/fuelpos/models"
)

// Visibility policy: attendants only ever see their own shifts and the
// records hanging off them; supervisors and admins see everything. Every
// read path goes through one of these two functions instead of repeating
// the role check per handler.

// ScopeShifts narrows a shift query to the caller's own rows for the
// attendant role.
func ScopeShifts(q *gorm.DB, r *http.Request) *gorm.DB {
	if models.Elevated(GetRole(r)) {
		return q
	}
	return q.Where("user_id = ?", GetUserID(r))
}

// ScopeSales narrows a sale query to sales belonging to the caller's own
// shifts for the attendant role.
func ScopeSales(q *gorm.DB, db *gorm.DB, r *http.Request) *gorm.DB {
	if models.Elevated(GetRole(r)) {
		return q
	}
	owned := db.Model(&models.Shift{}).Select("id").Where("user_id = ?", GetUserID(r))
	return q.Where("shift_id IN (?)", owned)
}

// CanAccessShift reports whether the caller may read the given shift.
func CanAccessShift(shift *models.Shift, r *http.Request) bool {
	if models.Elevated(GetRole(r)) {
		return true
	}
	return shift.UserID.String() == GetUserID(r)
}
