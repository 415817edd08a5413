// handlers/fueltypes.go
package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/models"
)

type fuelTypeReq struct {
	Name          string   `json:"name"`
	Code          string   `json:"code"`
	PricePerLitre *float64 `json:"pricePerLitre"`
	IsActive      *bool    `json:"isActive"`
}

func (req *fuelTypeReq) validate() []string {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "Fuel type name is required")
	}
	if strings.TrimSpace(req.Code) == "" {
		errs = append(errs, "Fuel type code is required")
	}
	if req.PricePerLitre == nil || *req.PricePerLitre < 0 {
		errs = append(errs, "Price per litre must be a positive number")
	}
	return errs
}

func GetFuelTypes(w http.ResponseWriter, r *http.Request) {
	var fuelTypes []models.FuelType
	if err := config.DB.Order("name").Find(&fuelTypes).Error; err != nil {
		log.Printf("Get fuel types error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, fuelTypes)
}

func CreateFuelType(w http.ResponseWriter, r *http.Request) {
	var req fuelTypeReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var existing models.FuelType
	if err := config.DB.Where("name = ? OR code = ?", req.Name, req.Code).First(&existing).Error; err == nil {
		writeMessage(w, http.StatusConflict, "Fuel type name or code already exists")
		return
	}

	fuelType := models.FuelType{
		Name:          strings.TrimSpace(req.Name),
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		PricePerLitre: *req.PricePerLitre,
		IsActive:      true,
	}
	if req.IsActive != nil {
		fuelType.IsActive = *req.IsActive
	}
	if err := config.DB.Create(&fuelType).Error; err != nil {
		log.Printf("Create fuel type error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusCreated, fuelType)
}

// UpdateFuelType replaces all mutable fields. Changing the price only
// affects sales recorded after this point; existing sales keep their
// snapshot.
func UpdateFuelType(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req fuelTypeReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var fuelType models.FuelType
	if err := config.DB.First(&fuelType, "id = ?", id).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "Fuel type not found")
		return
	}

	var existing models.FuelType
	if err := config.DB.Where("(name = ? OR code = ?) AND id <> ?", req.Name, req.Code, id).
		First(&existing).Error; err == nil {
		writeMessage(w, http.StatusConflict, "Fuel type name or code already exists")
		return
	}

	fuelType.Name = strings.TrimSpace(req.Name)
	fuelType.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	fuelType.PricePerLitre = *req.PricePerLitre
	if req.IsActive != nil {
		fuelType.IsActive = *req.IsActive
	}
	if err := config.DB.Save(&fuelType).Error; err != nil {
		log.Printf("Update fuel type error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, fuelType)
}
