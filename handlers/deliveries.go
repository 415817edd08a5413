// handlers/deliveries.go
package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/middleware"
	"p9e.in/fuelpos/models"
)

type deliveryReq struct {
	TankID          uuid.UUID `json:"tankId"`
	ChallanNumber   string    `json:"challanNumber"`
	LitresDelivered *float64  `json:"litresDelivered"`
	DeliveryDate    string    `json:"deliveryDate"`
	SupplierName    string    `json:"supplierName"`
	Notes           string    `json:"notes"`
}

// RecordDelivery applies a supplier drop: the delivery record, the tank
// stock increment and the ledger entry commit in one transaction, so the
// delivery log and the tank balance cannot diverge on a partial failure.
func RecordDelivery(w http.ResponseWriter, r *http.Request) {
	var req deliveryReq
	if !decodeJSON(w, r, &req) {
		return
	}

	var errs []string
	if req.TankID == uuid.Nil {
		errs = append(errs, "Valid tank ID is required")
	}
	if strings.TrimSpace(req.ChallanNumber) == "" {
		errs = append(errs, "Challan number is required")
	}
	if req.LitresDelivered == nil || *req.LitresDelivered < 0 {
		errs = append(errs, "Litres delivered must be a positive number")
	}
	deliveryDate, err := time.Parse(time.RFC3339, req.DeliveryDate)
	if err != nil {
		if deliveryDate, err = time.Parse("2006-01-02", req.DeliveryDate); err != nil {
			errs = append(errs, "Valid delivery date is required")
		}
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	var tank models.Tank
	if err := config.DB.First(&tank, "id = ?", req.TankID).Error; err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid tank")
		return
	}

	delivery := models.Delivery{
		TankID:          tank.ID,
		ChallanNumber:   strings.TrimSpace(req.ChallanNumber),
		LitresDelivered: *req.LitresDelivered,
		DeliveryDate:    deliveryDate,
		SupplierName:    req.SupplierName,
		Notes:           req.Notes,
		CreatedBy:       uuid.MustParse(middleware.GetUserID(r)),
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&delivery).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Tank{}).Where("id = ?", tank.ID).
			Update("current_stock", gorm.Expr("current_stock + ?", delivery.LitresDelivered)).Error; err != nil {
			return err
		}
		movement := models.StockMovement{
			TankID: tank.ID,
			Kind:   models.MovementDelivery,
			Litres: delivery.LitresDelivered,
			RefID:  delivery.ID,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		log.Printf("Record delivery error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	config.DB.
		Preload("Tank", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Tank.FuelType").
		First(&delivery, "id = ?", delivery.ID)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Delivery recorded successfully",
		"delivery": delivery,
	})
}

// GetDeliveries lists deliveries, optionally filtered by tank and date.
// Deliveries against retired tanks still list; the tank renders from the
// soft-deleted row.
func GetDeliveries(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.Delivery{})

	if tankID := r.URL.Query().Get("tankId"); tankID != "" {
		q = q.Where("tank_id = ?", tankID)
	}
	if value := r.URL.Query().Get("date"); value != "" {
		start, end, err := dayRange(value)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid date filter")
			return
		}
		q = q.Where("delivery_date >= ? AND delivery_date < ?", start, end)
	}

	var deliveries []models.Delivery
	if err := q.
		Preload("Tank", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Tank.FuelType").
		Order("delivery_date DESC").Find(&deliveries).Error; err != nil {
		log.Printf("Get deliveries error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, deliveries)
}
