package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/fuelpos/handlers"
	"p9e.in/fuelpos/middleware"
	"p9e.in/fuelpos/models"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/register", handlers.Register).Methods("POST")
	r.HandleFunc("/login", handlers.Login).Methods("POST")

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handlers.Profile).Methods("GET")

	registerFuelTypeRoutes(api)
	registerShiftRoutes(api)
	registerSaleRoutes(api)
	registerTankRoutes(api)
	registerDeliveryRoutes(api)
	registerPumpRoutes(api)
	registerReportRoutes(api)

	return r
}

// adminOnly restricts a handler to users with the admin role.
func adminOnly(h http.HandlerFunc) http.Handler {
	return middleware.RequireRole([]string{models.RoleAdmin}, h)
}

func registerFuelTypeRoutes(api *mux.Router) {
	api.HandleFunc("/fuel-types", handlers.GetFuelTypes).Methods("GET")
	api.Handle("/fuel-types", adminOnly(handlers.CreateFuelType)).Methods("POST")
	api.Handle("/fuel-types/{id}", adminOnly(handlers.UpdateFuelType)).Methods("PUT")
}

func registerShiftRoutes(api *mux.Router) {
	api.HandleFunc("/shifts/start", handlers.StartShift).Methods("POST")
	api.HandleFunc("/shifts/{id}/close", handlers.CloseShift).Methods("PUT")
	api.HandleFunc("/shifts/current", handlers.GetCurrentShift).Methods("GET")
	api.HandleFunc("/shifts", handlers.GetShifts).Methods("GET")
	api.HandleFunc("/shifts/{id}", handlers.GetShift).Methods("GET")
}

func registerSaleRoutes(api *mux.Router) {
	api.HandleFunc("/sales", handlers.RecordSale).Methods("POST")
	api.HandleFunc("/sales", handlers.GetSales).Methods("GET")
	api.HandleFunc("/sales/shift-summary/{shiftId}", handlers.GetShiftSummary).Methods("GET")
}

func registerTankRoutes(api *mux.Router) {
	api.HandleFunc("/tanks", handlers.GetTanks).Methods("GET")
	api.HandleFunc("/tanks/low-stock", handlers.GetLowStockTanks).Methods("GET")
	api.Handle("/tanks", adminOnly(handlers.CreateTank)).Methods("POST")
	api.Handle("/tanks/{id}", adminOnly(handlers.UpdateTank)).Methods("PUT")
	api.Handle("/tanks/{id}", adminOnly(handlers.DeleteTank)).Methods("DELETE")
	api.HandleFunc("/tanks/{id}/dips", handlers.RecordTankDip).Methods("POST")
	api.HandleFunc("/tanks/{id}/dips", handlers.GetTankDips).Methods("GET")
	api.HandleFunc("/tanks/{id}/movements", handlers.GetTankMovements).Methods("GET")
}

func registerDeliveryRoutes(api *mux.Router) {
	api.HandleFunc("/tanks/delivery", handlers.RecordDelivery).Methods("POST")
	api.HandleFunc("/tanks/deliveries", handlers.GetDeliveries).Methods("GET")
}

func registerPumpRoutes(api *mux.Router) {
	api.HandleFunc("/pumps", handlers.GetPumps).Methods("GET")
	api.Handle("/pumps", adminOnly(handlers.CreatePump)).Methods("POST")
	api.Handle("/pumps/{id}", adminOnly(handlers.UpdatePump)).Methods("PUT")
	api.Handle("/pumps/{id}", adminOnly(handlers.DeletePump)).Methods("DELETE")
}

func registerReportRoutes(api *mux.Router) {
	api.HandleFunc("/reports/daily-shift/{shiftId}", handlers.GetDailyShiftReport).Methods("GET")
	api.HandleFunc("/reports/daily-sales", handlers.GetDailySalesReport).Methods("GET")
	api.HandleFunc("/reports/monthly-sales", handlers.GetMonthlySalesReport).Methods("GET")
	api.HandleFunc("/reports/export-pdf/{shiftId}", handlers.ExportShiftReportPDF).Methods("GET")
	api.HandleFunc("/reports/export-daily-sales-pdf", handlers.ExportDailySalesPDF).Methods("GET")
	api.HandleFunc("/reports/export-monthly-sales-pdf", handlers.ExportMonthlySalesPDF).Methods("GET")
	api.HandleFunc("/reports/export-daily-sales-excel", handlers.ExportDailySalesExcel).Methods("GET")
	api.HandleFunc("/reports/export-daily-sales-csv", handlers.ExportDailySalesCSV).Methods("GET")
}
