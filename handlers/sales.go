// handlers/sales.go
package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/middleware"
	"p9e.in/fuelpos/models"
)

type recordSaleReq struct {
	NozzleID       uuid.UUID `json:"nozzleId"`
	OpeningReading *float64  `json:"openingReading"`
	ClosingReading *float64  `json:"closingReading"`
	PaymentMethod  string    `json:"paymentMethod"`
}

type saleResp struct {
	Message string      `json:"message"`
	Sale    models.Sale `json:"sale"`
}

// preloadSaleRefs expands nozzle -> pump/fuel type for display, reaching
// through soft deletes so sales on retired equipment still render.
func preloadSaleRefs(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Nozzle", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Nozzle.Pump", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Nozzle.FuelType")
}

// RecordSale validates and records one dispensing event against the
// caller's open shift. Litres and amount are derived here and frozen:
// litres = closing - opening, price = the fuel type's current price.
func RecordSale(w http.ResponseWriter, r *http.Request) {
	var req recordSaleReq
	if !decodeJSON(w, r, &req) {
		return
	}

	var errs []string
	if req.NozzleID == uuid.Nil {
		errs = append(errs, "Valid nozzle ID is required")
	}
	if req.OpeningReading == nil || *req.OpeningReading < 0 {
		errs = append(errs, "Opening reading must be a positive number")
	}
	if req.ClosingReading == nil || *req.ClosingReading < 0 {
		errs = append(errs, "Closing reading must be a positive number")
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		errs = append(errs, "Invalid payment method")
	}
	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	// The shift is looked up fresh rather than trusted from the caller.
	var shift models.Shift
	err := config.DB.Where("user_id = ? AND status = ?", middleware.GetUserID(r), models.ShiftOpen).
		First(&shift).Error
	if err != nil {
		writeMessage(w, http.StatusConflict, "No open shift found. Please start a shift first.")
		return
	}

	var nozzle models.Nozzle
	if err := config.DB.Preload("FuelType").First(&nozzle, "id = ?", req.NozzleID).Error; err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid nozzle")
		return
	}

	if *req.ClosingReading <= *req.OpeningReading {
		writeMessage(w, http.StatusBadRequest, "Closing reading must be greater than opening reading")
		return
	}

	litresDispensed := *req.ClosingReading - *req.OpeningReading
	pricePerLitre := nozzle.FuelType.PricePerLitre
	totalAmount := litresDispensed * pricePerLitre

	sale := models.Sale{
		ShiftID:         shift.ID,
		NozzleID:        nozzle.ID,
		OpeningReading:  *req.OpeningReading,
		ClosingReading:  *req.ClosingReading,
		LitresDispensed: litresDispensed,
		PricePerLitre:   pricePerLitre,
		TotalAmount:     totalAmount,
		PaymentMethod:   req.PaymentMethod,
		CreatedBy:       shift.UserID,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}
		// Consumption goes on the movement ledger. CurrentStock itself is
		// only moved by deliveries; reconciliation replays the ledger.
		var tank models.Tank
		err := tx.Where("fuel_type_id = ?", nozzle.FuelTypeID).First(&tank).Error
		if err == gorm.ErrRecordNotFound {
			return nil // no tank registered for this fuel type
		}
		if err != nil {
			return err
		}
		movement := models.StockMovement{
			TankID: tank.ID,
			Kind:   models.MovementSale,
			Litres: -litresDispensed,
			RefID:  sale.ID,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		log.Printf("Record sale error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	preloadSaleRefs(config.DB).First(&sale, "id = ?", sale.ID)
	writeJSON(w, http.StatusCreated, saleResp{Message: "Sale recorded successfully", Sale: sale})
}

// GetSales lists sales with optional shiftId, date and paymentMethod
// filters. Attendants only ever see sales from their own shifts, whatever
// filters they ask for.
func GetSales(w http.ResponseWriter, r *http.Request) {
	q := config.DB.Model(&models.Sale{})

	if shiftID := r.URL.Query().Get("shiftId"); shiftID != "" {
		q = q.Where("shift_id = ?", shiftID)
	}
	if value := r.URL.Query().Get("date"); value != "" {
		start, end, err := dayRange(value)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid date filter")
			return
		}
		q = q.Where("created_at >= ? AND created_at < ?", start, end)
	}
	if method := r.URL.Query().Get("paymentMethod"); method != "" {
		q = q.Where("payment_method = ?", method)
	}
	q = middleware.ScopeSales(q, config.DB, r)

	var sales []models.Sale
	if err := preloadSaleRefs(q).Preload("Shift").Order("created_at DESC").Find(&sales).Error; err != nil {
		log.Printf("Get sales error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// GetShiftSummary aggregates one shift's sales: totals, payment split,
// per-fuel-type and per-pump groupings.
func GetShiftSummary(w http.ResponseWriter, r *http.Request) {
	shiftID := mux.Vars(r)["shiftId"]

	var shift models.Shift
	if err := config.DB.First(&shift, "id = ?", shiftID).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "Shift not found")
		return
	}
	if !middleware.CanAccessShift(&shift, r) {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return
	}

	var sales []models.Sale
	if err := preloadSaleRefs(config.DB.Where("shift_id = ?", shiftID)).Find(&sales).Error; err != nil {
		log.Printf("Get shift summary error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"shift":   shift,
		"sales":   sales,
		"summary": models.SummarizeSales(sales),
	})
}
