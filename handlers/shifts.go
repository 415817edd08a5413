// handlers/shifts.go
package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/middleware"
	"p9e.in/fuelpos/models"
)

type readingEntry struct {
	NozzleID     uuid.UUID `json:"nozzleId"`
	MeterReading float64   `json:"meterReading"`
}

type startShiftReq struct {
	OpeningCash     *float64       `json:"openingCash"`
	OpeningReadings []readingEntry `json:"openingReadings"`
}

type closeShiftReq struct {
	ClosingCash     *float64       `json:"closingCash"`
	ClosingReadings []readingEntry `json:"closingReadings"`
	Notes           string         `json:"notes"`
}

type shiftResp struct {
	Message string       `json:"message"`
	Shift   models.Shift `json:"shift"`
}

func validateReadings(entries []readingEntry, errs []string) []string {
	for _, entry := range entries {
		if entry.NozzleID == uuid.Nil {
			errs = append(errs, "Valid nozzle ID is required for each reading")
		}
		if entry.MeterReading < 0 {
			errs = append(errs, "Meter reading must be a positive number")
		}
	}
	return errs
}

// StartShift opens a work session for the caller. The caller must not
// have an open shift anywhere — not just today; a stale open shift from a
// previous day still blocks a new one until it is closed. The check is
// backed by the partial unique index, so a concurrent duplicate start
// fails on insert and reports the same conflict.
func StartShift(w http.ResponseWriter, r *http.Request) {
	var req startShiftReq
	if !decodeJSON(w, r, &req) {
		return
	}

	var errs []string
	if req.OpeningCash == nil || *req.OpeningCash < 0 {
		errs = append(errs, "Opening cash must be a positive number")
	}
	errs = validateReadings(req.OpeningReadings, errs)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	userID := middleware.GetUserID(r)

	var existing models.Shift
	err := config.DB.Where("user_id = ? AND status = ?", userID, models.ShiftOpen).First(&existing).Error
	if err == nil {
		writeMessage(w, http.StatusConflict, "You already have an open shift")
		return
	}

	now := time.Now()
	shift := models.Shift{
		UserID:      uuid.MustParse(userID),
		ShiftDate:   now,
		StartTime:   now,
		OpeningCash: *req.OpeningCash,
		Status:      models.ShiftOpen,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&shift).Error; err != nil {
			return err
		}
		for _, entry := range req.OpeningReadings {
			reading := models.PumpReading{
				ShiftID:      shift.ID,
				NozzleID:     entry.NozzleID,
				ReadingType:  models.ReadingOpening,
				MeterReading: entry.MeterReading,
				RecordedBy:   shift.UserID,
			}
			if err := tx.Create(&reading).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if strings.Contains(err.Error(), "idx_shifts_one_open_per_user") {
			writeMessage(w, http.StatusConflict, "You already have an open shift")
			return
		}
		log.Printf("Start shift error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	config.DB.Preload("User").First(&shift, "id = ?", shift.ID)
	writeJSON(w, http.StatusCreated, shiftResp{Message: "Shift started successfully", Shift: shift})
}

// CloseShift ends an open shift: closing readings and the status flip are
// committed as one transaction so a partial batch never persists.
func CloseShift(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req closeShiftReq
	if !decodeJSON(w, r, &req) {
		return
	}

	var errs []string
	if req.ClosingCash == nil || *req.ClosingCash < 0 {
		errs = append(errs, "Closing cash must be a positive number")
	}
	errs = validateReadings(req.ClosingReadings, errs)
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var shift models.Shift
	if err := config.DB.Where("id = ? AND status = ?", id, models.ShiftOpen).First(&shift).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "Shift not found or already closed")
		return
	}
	if !middleware.CanAccessShift(&shift, r) {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}

	recordedBy := uuid.MustParse(middleware.GetUserID(r))
	now := time.Now()
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		for _, entry := range req.ClosingReadings {
			reading := models.PumpReading{
				ShiftID:      shift.ID,
				NozzleID:     entry.NozzleID,
				ReadingType:  models.ReadingClosing,
				MeterReading: entry.MeterReading,
				RecordedBy:   recordedBy,
			}
			if err := tx.Create(&reading).Error; err != nil {
				return err
			}
		}
		shift.EndTime = &now
		shift.ClosingCash = *req.ClosingCash
		shift.Status = models.ShiftClosed
		shift.Notes = req.Notes
		return tx.Save(&shift).Error
	})
	if err != nil {
		log.Printf("Close shift error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	config.DB.Preload("User").First(&shift, "id = ?", shift.ID)
	writeJSON(w, http.StatusOK, shiftResp{Message: "Shift closed successfully", Shift: shift})
}

// GetShifts lists shifts, attendant-scoped, newest first. Filters: date
// (YYYY-MM-DD), status.
func GetShifts(w http.ResponseWriter, r *http.Request) {
	q := middleware.ScopeShifts(config.DB.Model(&models.Shift{}), r)

	if value := r.URL.Query().Get("date"); value != "" {
		start, end, err := dayRange(value)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid date filter")
			return
		}
		q = q.Where("shift_date >= ? AND shift_date < ?", start, end)
	}
	if status := r.URL.Query().Get("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var shifts []models.Shift
	if err := q.Preload("User").Order("shift_date DESC, start_time DESC").Find(&shifts).Error; err != nil {
		log.Printf("Get shifts error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, shifts)
}

// GetCurrentShift returns the caller's open shift, if any.
func GetCurrentShift(w http.ResponseWriter, r *http.Request) {
	var shift models.Shift
	err := config.DB.Preload("User").
		Where("user_id = ? AND status = ?", middleware.GetUserID(r), models.ShiftOpen).
		First(&shift).Error
	if err != nil {
		writeMessage(w, http.StatusNotFound, "No open shift found")
		return
	}
	writeJSON(w, http.StatusOK, shift)
}

// GetShift returns one shift with its meter readings.
func GetShift(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var shift models.Shift
	if err := config.DB.Preload("User").First(&shift, "id = ?", id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "Shift not found")
		return
	}
	if !middleware.CanAccessShift(&shift, r) {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}

	var readings []models.PumpReading
	if err := config.DB.Where("shift_id = ?", shift.ID).
		Preload("Nozzle", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Nozzle.Pump", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Nozzle.FuelType").
		Find(&readings).Error; err != nil {
		log.Printf("Get shift readings error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"shift":    shift,
		"readings": readings,
	})
}
