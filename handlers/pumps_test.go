package handlers_test

import (
	"net/http"
	"testing"

	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/models"
)

func TestCreatePumpWithNozzles(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	token := tokenFor(t, admin)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/pumps", token, map[string]interface{}{
		"pumpNumber": "P2",
		"name":       "Pump 2",
		"nozzles": []map[string]interface{}{
			{"nozzleNumber": "N1", "fuelTypeId": st.Petrol.ID},
			{"nozzleNumber": "N2", "fuelTypeId": st.Diesel.ID},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create pump: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var pumps []models.Pump
	list := doJSON(t, router, http.MethodGet, "/api/v1/pumps", token, nil)
	decodeBody(t, list, &pumps)
	if len(pumps) != 2 {
		t.Fatalf("got %d pumps, want 2", len(pumps))
	}
}

func TestCreatePumpDuplicateNozzleNumbers(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	token := tokenFor(t, admin)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/pumps", token, map[string]interface{}{
		"pumpNumber": "P2",
		"name":       "Pump 2",
		"nozzles": []map[string]interface{}{
			{"nozzleNumber": "N1", "fuelTypeId": st.Petrol.ID},
			{"nozzleNumber": "N1", "fuelTypeId": st.Diesel.ID},
		},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate nozzle numbers: got status %d, want 400", rec.Code)
	}
}

func TestUpdatePumpRetiresNozzles(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	attendant := createUser(t, "ali", models.RoleAttendant)
	adminToken := tokenFor(t, admin)
	attToken := tokenFor(t, attendant)

	// a sale on the old nozzle must survive the reconfiguration
	openShift(t, router, attToken, st)
	sale := recordSale(t, router, attToken, st, 12000, 12010)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/pumps/"+st.Pump.ID.String(), adminToken,
		map[string]interface{}{
			"pumpNumber": "P1",
			"name":       "Pump 1 rebuilt",
			"nozzles": []map[string]interface{}{
				{"nozzleNumber": "N1", "fuelTypeId": st.Diesel.ID},
			},
		})
	if rec.Code != http.StatusOK {
		t.Fatalf("update pump: got status %d, body %s", rec.Code, rec.Body.String())
	}

	// old nozzles are retired, not rewritten
	var live []models.Nozzle
	if err := config.DB.Where("pump_id = ?", st.Pump.ID).Find(&live).Error; err != nil {
		t.Fatalf("load nozzles: %v", err)
	}
	if len(live) != 1 {
		t.Fatalf("got %d live nozzles, want 1", len(live))
	}
	if live[0].ID == st.PetrolNozzle.ID || live[0].ID == st.DieselNozzle.ID {
		t.Error("nozzle identity reused across reconfiguration")
	}

	var retired models.Nozzle
	if err := config.DB.Unscoped().First(&retired, "id = ?", st.PetrolNozzle.ID).Error; err != nil {
		t.Fatalf("retired nozzle row gone: %v", err)
	}
	if retired.FuelTypeID != st.Petrol.ID {
		t.Error("retired nozzle fuel type rewritten")
	}

	// the old sale still resolves its nozzle through the soft delete
	sum := doJSON(t, router, http.MethodGet, "/api/v1/sales", attToken, nil)
	var sales []models.Sale
	decodeBody(t, sum, &sales)
	if len(sales) != 1 || sales[0].ID != sale.ID {
		t.Fatalf("sale lost after pump update: %+v", sales)
	}
	if sales[0].Nozzle.FuelType.Name != "Petrol" {
		t.Errorf("sale fuel type = %q, want Petrol", sales[0].Nozzle.FuelType.Name)
	}
}

func TestDeletePumpSoftDeletesNozzles(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	token := tokenFor(t, admin)

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/pumps/"+st.Pump.ID.String(), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete pump: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var livePumps []models.Pump
	if err := config.DB.Find(&livePumps).Error; err != nil {
		t.Fatalf("load pumps: %v", err)
	}
	if len(livePumps) != 0 {
		t.Fatalf("got %d live pumps, want 0", len(livePumps))
	}

	var liveNozzles []models.Nozzle
	if err := config.DB.Where("pump_id = ?", st.Pump.ID).Find(&liveNozzles).Error; err != nil {
		t.Fatalf("load nozzles: %v", err)
	}
	if len(liveNozzles) != 0 {
		t.Fatalf("got %d live nozzles, want 0", len(liveNozzles))
	}

	var all []models.Nozzle
	if err := config.DB.Unscoped().Where("pump_id = ?", st.Pump.ID).Find(&all).Error; err != nil {
		t.Fatalf("load retired nozzles: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("retired nozzle rows = %d, want 2", len(all))
	}
}

func TestFuelTypeUniqueness(t *testing.T) {
	router := setupTest(t)
	seedStation(t)
	admin := createUser(t, "admin", models.RoleAdmin)
	token := tokenFor(t, admin)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/fuel-types", token, map[string]interface{}{
		"name":          "Petrol",
		"code":          "PT2",
		"pricePerLitre": 290.0,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate fuel type name: got status %d, want 409", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/v1/fuel-types", token, map[string]interface{}{
		"name":          "Hi-Octane",
		"code":          "HO",
		"pricePerLitre": 320.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create fuel type: got status %d, body %s", rec.Code, rec.Body.String())
	}
}
