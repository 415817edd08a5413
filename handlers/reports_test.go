package handlers_test

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"
	"time"

	"p9e.in/fuelpos/models"
)

func TestDailyShiftReport(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	attendant := createUser(t, "ali", models.RoleAttendant)
	token := tokenFor(t, attendant)

	shiftID := openShift(t, router, token, st)
	recordSale(t, router, token, st, 12000, 12050)
	closeShift(t, router, token, shiftID, st)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/reports/daily-shift/"+shiftID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("shift report: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Readings []struct {
			Pump     string  `json:"pump"`
			FuelType string  `json:"fuelType"`
			Opening  float64 `json:"opening"`
			Closing  float64 `json:"closing"`
		} `json:"readings"`
		Sales  []models.Sale       `json:"sales"`
		Totals models.SalesSummary `json:"totals"`
	}
	decodeBody(t, rec, &report)

	if len(report.Readings) != 2 {
		t.Fatalf("got %d reading pairs, want 2", len(report.Readings))
	}
	var petrol bool
	for _, pair := range report.Readings {
		if pair.FuelType == "Petrol" {
			petrol = true
			if pair.Opening != 12000 || pair.Closing != 12100 {
				t.Errorf("petrol pair = %+v", pair)
			}
		}
	}
	if !petrol {
		t.Error("no petrol reading pair in report")
	}
	if report.Totals.TotalSales != 1 || report.Totals.TotalLitres != 50 {
		t.Errorf("totals = %+v", report.Totals)
	}
}

func TestShiftReportAccessControl(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	owner := createUser(t, "ali", models.RoleAttendant)
	other := createUser(t, "hassan", models.RoleAttendant)

	shiftID := openShift(t, router, tokenFor(t, owner), st)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/reports/daily-shift/"+shiftID, tokenFor(t, other), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("other attendant report: got status %d, want 403", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet,
		"/api/v1/reports/daily-shift/0b81ccae-1f3c-4bb0-9351-4f9a85bb2f5e", tokenFor(t, owner), nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing shift report: got status %d, want 404", rec.Code)
	}
}

func TestDailySalesReport(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	supervisor := createUser(t, "ahmed", models.RoleSupervisor)
	attendant := createUser(t, "ali", models.RoleAttendant)

	openShift(t, router, tokenFor(t, attendant), st)
	recordSale(t, router, tokenFor(t, attendant), st, 12000, 12050)

	rec := doJSON(t, router, http.MethodGet,
		"/api/v1/reports/daily-sales?date="+todayDate(), tokenFor(t, supervisor), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("daily sales: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Date    string              `json:"date"`
		Shifts  []models.Shift      `json:"shifts"`
		Sales   []models.Sale       `json:"sales"`
		Summary models.SalesSummary `json:"summary"`
	}
	decodeBody(t, rec, &report)
	if report.Date != todayDate() {
		t.Errorf("report date = %q", report.Date)
	}
	if len(report.Shifts) != 1 || len(report.Sales) != 1 {
		t.Errorf("shifts = %d sales = %d, want 1 each", len(report.Shifts), len(report.Sales))
	}
	if report.Summary.TotalAmount != 50*280.50 {
		t.Errorf("summary amount = %v", report.Summary.TotalAmount)
	}
}

func TestMonthlySalesReport(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	supervisor := createUser(t, "ahmed", models.RoleSupervisor)
	attendant := createUser(t, "ali", models.RoleAttendant)

	openShift(t, router, tokenFor(t, attendant), st)
	recordSale(t, router, tokenFor(t, attendant), st, 12000, 12050)

	now := time.Now()
	path := "/api/v1/reports/monthly-sales?year=" + now.Format("2006") + "&month=" + now.Format("1")
	rec := doJSON(t, router, http.MethodGet, path, tokenFor(t, supervisor), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("monthly sales: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var report struct {
		Year    int                 `json:"year"`
		Month   int                 `json:"month"`
		Summary models.SalesSummary `json:"summary"`
		ByDay   []struct {
			Date   string  `json:"date"`
			Litres float64 `json:"litres"`
		} `json:"byDay"`
	}
	decodeBody(t, rec, &report)
	if report.Year != now.Year() || report.Month != int(now.Month()) {
		t.Errorf("report period = %d-%d", report.Year, report.Month)
	}
	if report.Summary.TotalLitres != 50 {
		t.Errorf("summary litres = %v", report.Summary.TotalLitres)
	}

	var found bool
	for _, day := range report.ByDay {
		if day.Date == todayDate() && day.Litres == 50 {
			found = true
		}
	}
	if !found {
		t.Error("today's bucket missing from byDay breakdown")
	}

	rec = doJSON(t, router, http.MethodGet,
		"/api/v1/reports/monthly-sales?year=2026&month=13", tokenFor(t, supervisor), nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("month 13: got status %d, want 400", rec.Code)
	}
}

func TestReportExports(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	supervisor := createUser(t, "ahmed", models.RoleSupervisor)
	attendant := createUser(t, "ali", models.RoleAttendant)
	supToken := tokenFor(t, supervisor)

	shiftID := openShift(t, router, tokenFor(t, attendant), st)
	recordSale(t, router, tokenFor(t, attendant), st, 12000, 12050)

	t.Run("shift pdf", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet,
			"/api/v1/reports/export-pdf/"+shiftID, supToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d, body %s", rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("content type = %q", ct)
		}
		if !strings.HasPrefix(rec.Body.String(), "%PDF") {
			t.Error("body is not a PDF document")
		}
	})

	t.Run("daily sales pdf", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet,
			"/api/v1/reports/export-daily-sales-pdf?date="+todayDate(), supToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d", rec.Code)
		}
		if !strings.HasPrefix(rec.Body.String(), "%PDF") {
			t.Error("body is not a PDF document")
		}
	})

	t.Run("daily sales excel", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet,
			"/api/v1/reports/export-daily-sales-excel?date="+todayDate(), supToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d", rec.Code)
		}
		if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, ".xlsx") {
			t.Errorf("content disposition = %q", cd)
		}
		// xlsx is a zip container
		if !strings.HasPrefix(rec.Body.String(), "PK") {
			t.Error("body is not an xlsx archive")
		}
	})

	t.Run("daily sales csv", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet,
			"/api/v1/reports/export-daily-sales-csv?date="+todayDate(), supToken, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("got status %d", rec.Code)
		}
		records, err := csv.NewReader(rec.Body).ReadAll()
		if err != nil {
			t.Fatalf("parse csv: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d csv rows, want header + 1 sale", len(records))
		}
		if records[0][0] != "Time" {
			t.Errorf("header = %v", records[0])
		}
	})
}
