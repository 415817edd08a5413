package handlers_test

import (
	"net/http"
	"testing"

	"p9e.in/fuelpos/config"
	"p9e.in/fuelpos/models"
)

func TestStartShiftRejectsSecondOpen(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	attendant := createUser(t, "ali", models.RoleAttendant)
	token := tokenFor(t, attendant)

	openShift(t, router, token, st)

	body := map[string]interface{}{
		"openingCash": 1000.0,
		"openingReadings": []map[string]interface{}{
			{"nozzleId": st.PetrolNozzle.ID, "meterReading": 12000.0},
		},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/shifts/start", token, body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("second open shift: got status %d, want 409", rec.Code)
	}
	var resp struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &resp)
	if resp.Message != "You already have an open shift" {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestStartShiftBlocksStaleOpenShift(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	attendant := createUser(t, "ali", models.RoleAttendant)
	token := tokenFor(t, attendant)

	shiftID := openShift(t, router, token, st)

	// backdate the open shift: it must still block a new one
	if err := config.DB.Model(&models.Shift{}).
		Where("id = ?", shiftID).
		Update("shift_date", "2026-01-01").Error; err != nil {
		t.Fatalf("backdate shift: %v", err)
	}

	body := map[string]interface{}{
		"openingCash": 1000.0,
		"openingReadings": []map[string]interface{}{
			{"nozzleId": st.PetrolNozzle.ID, "meterReading": 12000.0},
		},
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/shifts/start", token, body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("stale open shift: got status %d, want 409", rec.Code)
	}
}

func TestStartShiftValidation(t *testing.T) {
	router := setupTest(t)
	seedStation(t)
	attendant := createUser(t, "ali", models.RoleAttendant)
	token := tokenFor(t, attendant)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/shifts/start", token,
		map[string]interface{}{"openingReadings": []map[string]interface{}{}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing opening cash: got status %d, want 400", rec.Code)
	}
	var resp struct {
		Errors []string `json:"errors"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Errors) == 0 {
		t.Error("expected validation errors list")
	}
}

func TestCloseShiftAndReopen(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	attendant := createUser(t, "ali", models.RoleAttendant)
	token := tokenFor(t, attendant)

	shiftID := openShift(t, router, token, st)
	closeShift(t, router, token, shiftID, st)

	var shift models.Shift
	if err := config.DB.First(&shift, "id = ?", shiftID).Error; err != nil {
		t.Fatalf("load shift: %v", err)
	}
	if shift.Status != models.ShiftClosed {
		t.Errorf("status = %q, want closed", shift.Status)
	}
	if shift.EndTime == nil {
		t.Error("end time not set on close")
	}
	if shift.ClosingCash != 9000.0 {
		t.Errorf("closing cash = %v, want 9000", shift.ClosingCash)
	}

	// closed is terminal; a second close is a 404
	rec := doJSON(t, router, http.MethodPut, "/api/v1/shifts/"+shiftID+"/close", token,
		map[string]interface{}{"closingCash": 1.0})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("re-close: got status %d, want 404", rec.Code)
	}

	// closing frees the attendant to start the next shift
	openShift(t, router, token, st)
}

func TestCloseShiftForbiddenForOtherAttendant(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	owner := createUser(t, "ali", models.RoleAttendant)
	other := createUser(t, "hassan", models.RoleAttendant)

	shiftID := openShift(t, router, tokenFor(t, owner), st)

	rec := doJSON(t, router, http.MethodPut, "/api/v1/shifts/"+shiftID+"/close",
		tokenFor(t, other), map[string]interface{}{"closingCash": 1.0})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("other attendant close: got status %d, want 403", rec.Code)
	}
}

func TestCurrentShift(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	attendant := createUser(t, "ali", models.RoleAttendant)
	token := tokenFor(t, attendant)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/shifts/current", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("no open shift: got status %d, want 404", rec.Code)
	}

	shiftID := openShift(t, router, token, st)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/shifts/current", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("current shift: got status %d, body %s", rec.Code, rec.Body.String())
	}
	var shift models.Shift
	decodeBody(t, rec, &shift)
	if shift.ID.String() != shiftID {
		t.Errorf("current shift = %s, want %s", shift.ID, shiftID)
	}
}

func TestShiftVisibilityScoping(t *testing.T) {
	router := setupTest(t)
	st := seedStation(t)
	ali := createUser(t, "ali", models.RoleAttendant)
	hassan := createUser(t, "hassan", models.RoleAttendant)
	supervisor := createUser(t, "ahmed", models.RoleSupervisor)

	aliShift := openShift(t, router, tokenFor(t, ali), st)
	openShift(t, router, tokenFor(t, hassan), st)

	var shifts []models.Shift
	rec := doJSON(t, router, http.MethodGet, "/api/v1/shifts", tokenFor(t, ali), nil)
	decodeBody(t, rec, &shifts)
	if len(shifts) != 1 {
		t.Fatalf("attendant sees %d shifts, want 1", len(shifts))
	}

	rec = doJSON(t, router, http.MethodGet, "/api/v1/shifts", tokenFor(t, supervisor), nil)
	decodeBody(t, rec, &shifts)
	if len(shifts) != 2 {
		t.Fatalf("supervisor sees %d shifts, want 2", len(shifts))
	}

	// attendants cannot read another attendant's shift detail
	rec = doJSON(t, router, http.MethodGet, "/api/v1/shifts/"+aliShift, tokenFor(t, hassan), nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("cross-attendant shift read: got status %d, want 403", rec.Code)
	}
}
