// handlers/tanks.go
package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/middleware"
	"p9e.in/fuelpos/models"
)

type tankReq struct {
	TankNumber     string    `json:"tankNumber"`
	FuelTypeID     uuid.UUID `json:"fuelTypeId"`
	CapacityLitres *float64  `json:"capacityLitres"`
	CurrentStock   *float64  `json:"currentStock"`
	ReorderLevel   *float64  `json:"reorderLevel"`
}

func (req *tankReq) validate() []string {
	var errs []string
	if strings.TrimSpace(req.TankNumber) == "" {
		errs = append(errs, "Tank number is required")
	}
	if req.FuelTypeID == uuid.Nil {
		errs = append(errs, "Valid fuel type ID is required")
	}
	if req.CapacityLitres == nil || *req.CapacityLitres < 0 {
		errs = append(errs, "Capacity must be a positive number")
	}
	if req.CurrentStock != nil && *req.CurrentStock < 0 {
		errs = append(errs, "Current stock must be a positive number")
	}
	if req.ReorderLevel != nil && *req.ReorderLevel < 0 {
		errs = append(errs, "Reorder level must be a positive number")
	}
	return errs
}

func GetTanks(w http.ResponseWriter, r *http.Request) {
	var tanks []models.Tank
	if err := config.DB.Preload("FuelType").Order("tank_number").Find(&tanks).Error; err != nil {
		log.Printf("Get tanks error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, tanks)
}

// GetLowStockTanks returns tanks at or below their reorder level, for the
// dashboard alert strip.
func GetLowStockTanks(w http.ResponseWriter, r *http.Request) {
	var tanks []models.Tank
	if err := config.DB.Preload("FuelType").
		Where("current_stock <= reorder_level").
		Order("tank_number").Find(&tanks).Error; err != nil {
		log.Printf("Get low stock tanks error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, tanks)
}

func CreateTank(w http.ResponseWriter, r *http.Request) {
	var req tankReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var fuelType models.FuelType
	if err := config.DB.First(&fuelType, "id = ?", req.FuelTypeID).Error; err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid fuel type")
		return
	}

	var existing models.Tank
	if err := config.DB.Where("tank_number = ?", req.TankNumber).First(&existing).Error; err == nil {
		writeMessage(w, http.StatusConflict, "Tank number already exists")
		return
	}

	tank := models.Tank{
		TankNumber:     strings.TrimSpace(req.TankNumber),
		FuelTypeID:     req.FuelTypeID,
		CapacityLitres: *req.CapacityLitres,
	}
	if req.CurrentStock != nil {
		tank.CurrentStock = *req.CurrentStock
	}
	if req.ReorderLevel != nil {
		tank.ReorderLevel = *req.ReorderLevel
	}
	if err := config.DB.Create(&tank).Error; err != nil {
		log.Printf("Create tank error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	config.DB.Preload("FuelType").First(&tank, "id = ?", tank.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Tank created successfully",
		"tank":    tank,
	})
}

// UpdateTank fully replaces the mutable fields; it is not a partial patch.
func UpdateTank(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req tankReq
	if !decodeJSON(w, r, &req) {
		return
	}
	errs := req.validate()
	if req.CurrentStock == nil {
		errs = append(errs, "Current stock must be a positive number")
	}
	if req.ReorderLevel == nil {
		errs = append(errs, "Reorder level must be a positive number")
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var tank models.Tank
	if err := config.DB.First(&tank, "id = ?", id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "Tank not found")
		return
	}

	var existing models.Tank
	if err := config.DB.Where("tank_number = ? AND id <> ?", req.TankNumber, id).First(&existing).Error; err == nil {
		writeMessage(w, http.StatusConflict, "Tank number already exists")
		return
	}

	tank.TankNumber = strings.TrimSpace(req.TankNumber)
	tank.FuelTypeID = req.FuelTypeID
	tank.CapacityLitres = *req.CapacityLitres
	tank.CurrentStock = *req.CurrentStock
	tank.ReorderLevel = *req.ReorderLevel
	if err := config.DB.Save(&tank).Error; err != nil {
		log.Printf("Update tank error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	config.DB.Preload("FuelType").First(&tank, "id = ?", tank.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Tank updated successfully",
		"tank":    tank,
	})
}

// DeleteTank retires a tank (soft delete). Historical deliveries and
// movements keep their references; listings stop showing it.
func DeleteTank(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var tank models.Tank
	if err := config.DB.First(&tank, "id = ?", id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "Tank not found")
		return
	}
	if err := config.DB.Delete(&tank).Error; err != nil {
		log.Printf("Delete tank error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeMessage(w, http.StatusOK, "Tank deleted successfully")
}

type tankDipReq struct {
	DipReading   *float64 `json:"dipReading"`
	Temperature  *float64 `json:"temperature"`
	RecordedDate string   `json:"recordedDate"`
	Notes        string   `json:"notes"`
}

// RecordTankDip stores a manual stock-verification reading. Dips never
// adjust CurrentStock; they are an independent audit trail.
func RecordTankDip(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req tankDipReq
	if !decodeJSON(w, r, &req) {
		return
	}

	var errs []string
	if req.DipReading == nil || *req.DipReading < 0 {
		errs = append(errs, "Dip reading must be a positive number")
	}
	if req.Temperature != nil && (*req.Temperature < -50 || *req.Temperature > 100) {
		errs = append(errs, "Temperature must be between -50 and 100")
	}
	recordedDate := time.Now()
	if req.RecordedDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.RecordedDate)
		if err != nil {
			errs = append(errs, "Valid recorded date is required")
		} else {
			recordedDate = parsed
		}
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var tank models.Tank
	if err := config.DB.First(&tank, "id = ?", id).Error; err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid tank")
		return
	}

	dip := models.TankDip{
		TankID:       tank.ID,
		DipReading:   *req.DipReading,
		Temperature:  req.Temperature,
		RecordedDate: recordedDate,
		RecordedBy:   uuid.MustParse(middleware.GetUserID(r)),
		Notes:        req.Notes,
	}
	if err := config.DB.Create(&dip).Error; err != nil {
		log.Printf("Record tank dip error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Tank dip recorded successfully",
		"dip":     dip,
	})
}

func GetTankDips(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var dips []models.TankDip
	if err := config.DB.Where("tank_id = ?", id).Order("recorded_date DESC").Find(&dips).Error; err != nil {
		log.Printf("Get tank dips error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, dips)
}

// GetTankMovements returns the stock movement ledger for one tank, newest
// first. Replaying it over an opening balance is the reconciliation path
// when CurrentStock and the delivery log diverge.
func GetTankMovements(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var movements []models.StockMovement
	if err := config.DB.Where("tank_id = ?", id).Order("created_at DESC").Find(&movements).Error; err != nil {
		log.Printf("Get tank movements error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"movements": movements,
		"netLitres": models.NetMovement(movements),
	})
}
