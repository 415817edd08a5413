package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/middleware"
	"p9e.in/fuelpos/models"
	"p9e.in/fuelpos/routes"
)

// setupTest points config.DB at a fresh in-memory database and returns the
// full application router, so tests exercise the same routing, auth and
// role checks as production.
func setupTest(t *testing.T) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	// a second connection would see its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.FuelType{},
		&models.Pump{},
		&models.Nozzle{},
		&models.Tank{},
		&models.Shift{},
		&models.PumpReading{},
		&models.Sale{},
		&models.Delivery{},
		&models.TankDip{},
		&models.StockMovement{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	if err := config.PartialIndexes(db); err != nil {
		t.Fatalf("create partial indexes: %v", err)
	}

	config.DB = db
	return routes.RegisterRoutes()
}

func createUser(t *testing.T, username, role string) models.User {
	t.Helper()
	user := models.User{
		Username: username,
		FullName: username,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword("secret123"); err != nil {
		t.Fatalf("set password: %v", err)
	}
	if err := config.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := middleware.GenerateToken(user.ID.String(), user.Role, user.Username, user.FullName)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

// station is the minimal equipment fixture most handler tests need.
type station struct {
	Petrol       models.FuelType
	Diesel       models.FuelType
	Pump         models.Pump
	PetrolNozzle models.Nozzle
	DieselNozzle models.Nozzle
	Tank         models.Tank
}

func seedStation(t *testing.T) station {
	t.Helper()

	petrol := models.FuelType{Name: "Petrol", Code: "PET", PricePerLitre: 280.50, IsActive: true}
	diesel := models.FuelType{Name: "Diesel", Code: "DSL", PricePerLitre: 275.75, IsActive: true}
	if err := config.DB.Create(&petrol).Error; err != nil {
		t.Fatalf("seed petrol: %v", err)
	}
	if err := config.DB.Create(&diesel).Error; err != nil {
		t.Fatalf("seed diesel: %v", err)
	}

	pump := models.Pump{PumpNumber: "P1", Name: "Pump 1"}
	if err := config.DB.Create(&pump).Error; err != nil {
		t.Fatalf("seed pump: %v", err)
	}
	petrolNozzle := models.Nozzle{PumpID: pump.ID, NozzleNumber: "N1", FuelTypeID: petrol.ID}
	dieselNozzle := models.Nozzle{PumpID: pump.ID, NozzleNumber: "N2", FuelTypeID: diesel.ID}
	if err := config.DB.Create(&petrolNozzle).Error; err != nil {
		t.Fatalf("seed nozzle: %v", err)
	}
	if err := config.DB.Create(&dieselNozzle).Error; err != nil {
		t.Fatalf("seed nozzle: %v", err)
	}

	tank := models.Tank{
		TankNumber:     "T1",
		FuelTypeID:     petrol.ID,
		CapacityLitres: 10000,
		CurrentStock:   6500,
		ReorderLevel:   2000,
	}
	if err := config.DB.Create(&tank).Error; err != nil {
		t.Fatalf("seed tank: %v", err)
	}

	return station{
		Petrol:       petrol,
		Diesel:       diesel,
		Pump:         pump,
		PetrolNozzle: petrolNozzle,
		DieselNozzle: dieselNozzle,
		Tank:         tank,
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// openShift starts a shift over the API and returns its ID.
func openShift(t *testing.T, router http.Handler, token string, st station) string {
	t.Helper()

	body := map[string]interface{}{
		"openingCash": 5000.0,
		"openingReadings": []map[string]interface{}{
			{"nozzleId": st.PetrolNozzle.ID, "meterReading": 12000.0},
			{"nozzleId": st.DieselNozzle.ID, "meterReading": 8000.0},
		},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/shifts/start", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("start shift: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Shift models.Shift `json:"shift"`
	}
	decodeBody(t, rec, &resp)
	return resp.Shift.ID.String()
}

func closeShift(t *testing.T, router http.Handler, token, shiftID string, st station) {
	t.Helper()

	body := map[string]interface{}{
		"closingCash": 9000.0,
		"closingReadings": []map[string]interface{}{
			{"nozzleId": st.PetrolNozzle.ID, "meterReading": 12100.0},
			{"nozzleId": st.DieselNozzle.ID, "meterReading": 8050.0},
		},
	}
	rec := doJSON(t, router, http.MethodPut, "/api/v1/shifts/"+shiftID+"/close", token, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("close shift: got status %d, body %s", rec.Code, rec.Body.String())
	}
}

func todayDate() string {
	return time.Now().Format("2006-01-02")
}
