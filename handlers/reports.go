// handlers/reports.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/middleware"
	"p9e.in/fuelpos/models"
)

// readingPair is one pump+fuel row on the shift report, pairing the
// opening and closing meter readings.
type readingPair struct {
	Pump     string  `json:"pump"`
	FuelType string  `json:"fuelType"`
	Opening  float64 `json:"opening"`
	Closing  float64 `json:"closing"`
}

type shiftReport struct {
	Shift       models.Shift        `json:"shift"`
	Readings    []readingPair       `json:"readings"`
	Sales       []models.Sale       `json:"sales"`
	Totals      models.SalesSummary `json:"totals"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

type dailySalesReport struct {
	Date    string              `json:"date"`
	Shifts  []models.Shift      `json:"shifts"`
	Sales   []models.Sale       `json:"sales"`
	Summary models.SalesSummary `json:"summary"`
}

type dayBucket struct {
	Date   string  `json:"date"`
	Litres float64 `json:"litres"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

type monthlySalesReport struct {
	Year      int                 `json:"year"`
	Month     int                 `json:"month"`
	Shifts    []models.Shift      `json:"shifts"`
	Sales     []models.Sale       `json:"sales"`
	Summary   models.SalesSummary `json:"summary"`
	ByDay     []dayBucket         `json:"byDay"`
	TotalDays int                 `json:"totalDays"`
}

func salesForShifts(shifts []models.Shift) ([]models.Sale, error) {
	if len(shifts) == 0 {
		return []models.Sale{}, nil
	}
	ids := make([]uuid.UUID, len(shifts))
	for i, s := range shifts {
		ids[i] = s.ID
	}
	var sales []models.Sale
	err := preloadSaleRefs(config.DB.Where("shift_id IN ?", ids)).
		Preload("Shift").Order("created_at DESC").Find(&sales).Error
	return sales, err
}

func buildShiftReport(shift models.Shift) (*shiftReport, error) {
	var readings []models.PumpReading
	err := config.DB.Where("shift_id = ?", shift.ID).
		Preload("Nozzle", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Nozzle.Pump", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Nozzle.FuelType").
		Find(&readings).Error
	if err != nil {
		return nil, err
	}

	// Pair opening/closing by pump+fuel.
	paired := map[string]*readingPair{}
	var order []string
	for _, reading := range readings {
		key := reading.Nozzle.Pump.PumpNumber + "-" + reading.Nozzle.FuelType.Name
		if paired[key] == nil {
			paired[key] = &readingPair{
				Pump:     reading.Nozzle.Pump.PumpNumber,
				FuelType: reading.Nozzle.FuelType.Name,
			}
			order = append(order, key)
		}
		if reading.ReadingType == models.ReadingOpening {
			paired[key].Opening = reading.MeterReading
		} else {
			paired[key].Closing = reading.MeterReading
		}
	}
	pairs := make([]readingPair, 0, len(order))
	for _, key := range order {
		pairs = append(pairs, *paired[key])
	}

	sales, err := salesForShifts([]models.Shift{shift})
	if err != nil {
		return nil, err
	}

	return &shiftReport{
		Shift:       shift,
		Readings:    pairs,
		Sales:       sales,
		Totals:      models.SummarizeSales(sales),
		GeneratedAt: time.Now(),
	}, nil
}

func buildDailySalesReport(r *http.Request) (*dailySalesReport, error) {
	day := time.Now().Truncate(24 * time.Hour)
	if value := r.URL.Query().Get("date"); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			return nil, err
		}
		day = parsed
	}
	next := day.AddDate(0, 0, 1)

	q := middleware.ScopeShifts(config.DB.Model(&models.Shift{}), r).
		Where("shift_date >= ? AND shift_date < ?", day, next)
	var shifts []models.Shift
	if err := q.Preload("User").Find(&shifts).Error; err != nil {
		return nil, err
	}
	sales, err := salesForShifts(shifts)
	if err != nil {
		return nil, err
	}
	summary := models.SummarizeSales(sales)
	return &dailySalesReport{
		Date:    day.Format("2006-01-02"),
		Shifts:  shifts,
		Sales:   sales,
		Summary: summary,
	}, nil
}

func buildMonthlySalesReport(r *http.Request) (*monthlySalesReport, error) {
	now := time.Now()
	year := now.Year()
	month := int(now.Month())
	if value := r.URL.Query().Get("year"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		year = parsed
	}
	if value := r.URL.Query().Get("month"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 1 || parsed > 12 {
			return nil, errors.New("invalid month")
		}
		month = parsed
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)

	q := middleware.ScopeShifts(config.DB.Model(&models.Shift{}), r).
		Where("shift_date >= ? AND shift_date < ?", start, end)
	var shifts []models.Shift
	if err := q.Preload("User").Find(&shifts).Error; err != nil {
		return nil, err
	}
	sales, err := salesForShifts(shifts)
	if err != nil {
		return nil, err
	}

	byDay := map[string]*dayBucket{}
	for _, sale := range sales {
		key := sale.CreatedAt.Format("2006-01-02")
		if byDay[key] == nil {
			byDay[key] = &dayBucket{Date: key}
		}
		byDay[key].Litres += sale.LitresDispensed
		byDay[key].Amount += sale.TotalAmount
		byDay[key].Count++
	}
	days := make([]dayBucket, 0, len(byDay))
	for cursor := start; cursor.Before(end); cursor = cursor.AddDate(0, 0, 1) {
		if bucket := byDay[cursor.Format("2006-01-02")]; bucket != nil {
			days = append(days, *bucket)
		}
	}

	return &monthlySalesReport{
		Year:      year,
		Month:     month,
		Shifts:    shifts,
		Sales:     sales,
		Summary:   models.SummarizeSales(sales),
		ByDay:     days,
		TotalDays: len(days),
	}, nil
}

// loadShiftForReport resolves the shift and enforces the visibility
// policy, writing the error response itself on failure.
func loadShiftForReport(w http.ResponseWriter, r *http.Request) (models.Shift, bool) {
	shiftID := mux.Vars(r)["shiftId"]
	var shift models.Shift
	if err := config.DB.Preload("User").First(&shift, "id = ?", shiftID).Error; err != nil {
		writeMessage(w, http.StatusNotFound, "Shift not found")
		return shift, false
	}
	if !middleware.CanAccessShift(&shift, r) {
		writeMessage(w, http.StatusForbidden, "Access denied")
		return shift, false
	}
	return shift, true
}

// GetDailyShiftReport returns one shift's full report: paired meter
// readings, sales and totals.
func GetDailyShiftReport(w http.ResponseWriter, r *http.Request) {
	shift, ok := loadShiftForReport(w, r)
	if !ok {
		return
	}
	report, err := buildShiftReport(shift)
	if err != nil {
		log.Printf("Daily shift report error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetDailySalesReport rolls up all shifts and sales for one day.
func GetDailySalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := buildDailySalesReport(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid date filter")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetMonthlySalesReport rolls up a calendar month with a per-day
// breakdown.
func GetMonthlySalesReport(w http.ResponseWriter, r *http.Request) {
	report, err := buildMonthlySalesReport(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid year or month")
		return
	}
	writeJSON(w, http.StatusOK, report)
}
