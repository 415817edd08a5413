// handlers/pumps.go
package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/models"
)

type nozzleEntry struct {
	NozzleNumber string    `json:"nozzleNumber"`
	FuelTypeID   uuid.UUID `json:"fuelTypeId"`
}

type pumpReq struct {
	PumpNumber string        `json:"pumpNumber"`
	Name       string        `json:"name"`
	Nozzles    []nozzleEntry `json:"nozzles"`
}

func (req *pumpReq) validate() []string {
	var errs []string
	if strings.TrimSpace(req.PumpNumber) == "" {
		errs = append(errs, "Pump number is required")
	}
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "Pump name is required")
	}
	seen := map[string]bool{}
	for _, n := range req.Nozzles {
		if strings.TrimSpace(n.NozzleNumber) == "" {
			errs = append(errs, "Nozzle number is required for each nozzle")
		}
		if n.FuelTypeID == uuid.Nil {
			errs = append(errs, "Valid fuel type ID is required for each nozzle")
		}
		if seen[n.NozzleNumber] {
			errs = append(errs, "Duplicate nozzle number "+n.NozzleNumber)
		}
		seen[n.NozzleNumber] = true
	}
	return errs
}

func resolveFuelTypes(nozzles []nozzleEntry) error {
	for _, n := range nozzles {
		var fuelType models.FuelType
		if err := config.DB.First(&fuelType, "id = ?", n.FuelTypeID).Error; err != nil {
			return err
		}
	}
	return nil
}

func GetPumps(w http.ResponseWriter, r *http.Request) {
	var pumps []models.Pump
	if err := config.DB.Preload("Nozzles.FuelType").
		Order("pump_number").Find(&pumps).Error; err != nil {
		log.Printf("Get pumps error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, pumps)
}

func CreatePump(w http.ResponseWriter, r *http.Request) {
	var req pumpReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var existing models.Pump
	if err := config.DB.Where("pump_number = ?", req.PumpNumber).First(&existing).Error; err == nil {
		writeMessage(w, http.StatusConflict, "Pump number already exists")
		return
	}
	if err := resolveFuelTypes(req.Nozzles); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid fuel type for nozzle")
		return
	}

	pump := models.Pump{PumpNumber: strings.TrimSpace(req.PumpNumber), Name: strings.TrimSpace(req.Name)}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pump).Error; err != nil {
			return err
		}
		for _, n := range req.Nozzles {
			nozzle := models.Nozzle{
				PumpID:       pump.ID,
				NozzleNumber: strings.TrimSpace(n.NozzleNumber),
				FuelTypeID:   n.FuelTypeID,
			}
			if err := tx.Create(&nozzle).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Create pump error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	config.DB.Preload("Nozzles.FuelType").First(&pump, "id = ?", pump.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Pump created successfully",
		"pump":    pump,
	})
}

// UpdatePump edits a pump. When a nozzle set is supplied, the current
// nozzles are retired (soft delete) and fresh identities created in their
// place, so meter readings and sales recorded against old nozzle IDs stay
// resolvable instead of being orphaned by a destructive replace.
func UpdatePump(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req pumpReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var pump models.Pump
	if err := config.DB.First(&pump, "id = ?", id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "Pump not found")
		return
	}

	var existing models.Pump
	if err := config.DB.Where("pump_number = ? AND id <> ?", req.PumpNumber, id).First(&existing).Error; err == nil {
		writeMessage(w, http.StatusConflict, "Pump number already exists")
		return
	}
	if err := resolveFuelTypes(req.Nozzles); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid fuel type for nozzle")
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		pump.PumpNumber = strings.TrimSpace(req.PumpNumber)
		pump.Name = strings.TrimSpace(req.Name)
		if err := tx.Save(&pump).Error; err != nil {
			return err
		}
		if req.Nozzles == nil {
			return nil
		}
		// Retire, never delete: history keeps pointing at the old rows.
		if err := tx.Where("pump_id = ?", pump.ID).Delete(&models.Nozzle{}).Error; err != nil {
			return err
		}
		for _, n := range req.Nozzles {
			nozzle := models.Nozzle{
				PumpID:       pump.ID,
				NozzleNumber: strings.TrimSpace(n.NozzleNumber),
				FuelTypeID:   n.FuelTypeID,
			}
			if err := tx.Create(&nozzle).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Update pump error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	config.DB.Preload("Nozzles.FuelType").First(&pump, "id = ?", pump.ID)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Pump updated successfully",
		"pump":    pump,
	})
}

// DeletePump retires a pump (soft delete); historical references stay
// valid and the pump drops out of listings.
func DeletePump(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var pump models.Pump
	if err := config.DB.First(&pump, "id = ?", id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "Pump not found")
		return
	}
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pump_id = ?", pump.ID).Delete(&models.Nozzle{}).Error; err != nil {
			return err
		}
		return tx.Delete(&pump).Error
	})
	if err != nil {
		log.Printf("Delete pump error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeMessage(w, http.StatusOK, "Pump deleted successfully")
}
