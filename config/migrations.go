package config

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
	"p9e.in/fuelpos/models"
)

func Migrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "20250812_create_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.User{}, &models.FuelType{}, &models.Pump{},
					&models.Nozzle{}, &models.Tank{}, &models.Shift{}, &models.PumpReading{},
					&models.Sale{}, &models.Delivery{}, &models.TankDip{})
			},
		},
		{
			ID: "20250812_partial_unique_indexes",
			Migrate: func(tx *gorm.DB) error {
				return PartialIndexes(tx)
			},
		},
		{
			ID: "20250819_add_stock_movements",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&models.StockMovement{})
			},
		},
	})

	return m.Migrate()
}

// PartialIndexes creates the uniqueness constraints that only apply to live
// rows. The open-shift index is what makes the one-open-shift-per-user rule
// hold under concurrent starts; the equipment indexes keep numbers unique
// across the live set while retired (soft-deleted) rows stay in place for
// history. Also used by the test harness, so only portable SQL here.
func PartialIndexes(tx *gorm.DB) error {
	stmts := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_open_per_user ON shifts (user_id) WHERE status = 'open'`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_tanks_live_number ON tanks (tank_number) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_pumps_live_number ON pumps (pump_number) WHERE deleted_at IS NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_nozzles_live_pump_number ON nozzles (pump_id, nozzle_number) WHERE deleted_at IS NULL`,
	}
	for _, stmt := range stmts {
		if err := tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
