package config

import (
	"log"
	"os"

	"p9e.in/fuelpos/models"
)

// RunAllSeeding seeds reference data in dependency order. Every step is
// idempotent and skips when data already exists.
func RunAllSeeding() error {
	log.Println("=== Starting Database Seeding ===")

	log.Println("[1/4] Seeding Users...")
	if err := SeedUsers(); err != nil {
		return err
	}

	log.Println("[2/4] Seeding Fuel Types...")
	if err := SeedFuelTypes(); err != nil {
		return err
	}

	log.Println("[3/4] Seeding Pumps and Nozzles...")
	if err := SeedPumps(); err != nil {
		return err
	}

	log.Println("[4/4] Seeding Tanks...")
	if err := SeedTanks(); err != nil {
		return err
	}

	log.Println("=== Database Seeding Complete ===")
	return nil
}

// SeedUsers creates the default staff accounts.
func SeedUsers() error {
	var count int64
	DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Printf("Users already seeded (%d found), skipping", count)
		return nil
	}

	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		password = "changeme123"
	}

	users := []models.User{
		{Username: "admin", FullName: "System Administrator", Role: models.RoleAdmin, IsActive: true},
		{Username: "supervisor1", FullName: "Ahmed Supervisor", Role: models.RoleSupervisor, IsActive: true},
		{Username: "attendant1", FullName: "Ali Attendant", Role: models.RoleAttendant, IsActive: true},
		{Username: "attendant2", FullName: "Hassan Attendant", Role: models.RoleAttendant, IsActive: true},
	}
	for i := range users {
		if err := users[i].SetPassword(password); err != nil {
			return err
		}
		if err := DB.Create(&users[i]).Error; err != nil {
			return err
		}
		log.Printf("Created user %s (%s)", users[i].Username, users[i].Role)
	}
	return nil
}

// SeedFuelTypes creates the product price list.
func SeedFuelTypes() error {
	var count int64
	DB.Model(&models.FuelType{}).Count(&count)
	if count > 0 {
		log.Printf("Fuel types already seeded (%d found), skipping", count)
		return nil
	}

	fuelTypes := []models.FuelType{
		{Name: "Petrol", Code: "PET", PricePerLitre: 280.50, IsActive: true},
		{Name: "Diesel", Code: "DSL", PricePerLitre: 275.75, IsActive: true},
		{Name: "Hi-Octane", Code: "HO", PricePerLitre: 320.00, IsActive: true},
		{Name: "Kerosene", Code: "KER", PricePerLitre: 265.25, IsActive: true},
	}
	for i := range fuelTypes {
		if err := DB.Create(&fuelTypes[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("Created %d fuel types", len(fuelTypes))
	return nil
}

// SeedPumps creates the forecourt layout: two pumps with a petrol and a
// diesel nozzle each.
func SeedPumps() error {
	var count int64
	DB.Model(&models.Pump{}).Count(&count)
	if count > 0 {
		log.Printf("Pumps already seeded (%d found), skipping", count)
		return nil
	}

	var petrol, diesel models.FuelType
	if err := DB.Where("code = ?", "PET").First(&petrol).Error; err != nil {
		return err
	}
	if err := DB.Where("code = ?", "DSL").First(&diesel).Error; err != nil {
		return err
	}

	pumps := []struct {
		number string
		name   string
	}{
		{"P1", "Pump 1"},
		{"P2", "Pump 2"},
	}
	for _, p := range pumps {
		pump := models.Pump{PumpNumber: p.number, Name: p.name}
		if err := DB.Create(&pump).Error; err != nil {
			return err
		}
		nozzles := []models.Nozzle{
			{PumpID: pump.ID, NozzleNumber: "N1", FuelTypeID: petrol.ID},
			{PumpID: pump.ID, NozzleNumber: "N2", FuelTypeID: diesel.ID},
		}
		for i := range nozzles {
			if err := DB.Create(&nozzles[i]).Error; err != nil {
				return err
			}
		}
		log.Printf("Created pump %s with %d nozzles", p.number, len(nozzles))
	}
	return nil
}

// SeedTanks creates the underground storage registry.
func SeedTanks() error {
	var count int64
	DB.Model(&models.Tank{}).Count(&count)
	if count > 0 {
		log.Printf("Tanks already seeded (%d found), skipping", count)
		return nil
	}

	var fuelTypes []models.FuelType
	if err := DB.Order("code").Find(&fuelTypes).Error; err != nil {
		return err
	}
	byCode := map[string]models.FuelType{}
	for _, f := range fuelTypes {
		byCode[f.Code] = f
	}

	tanks := []models.Tank{
		{TankNumber: "T1", FuelTypeID: byCode["PET"].ID, CapacityLitres: 10000, CurrentStock: 6500, ReorderLevel: 2000},
		{TankNumber: "T2", FuelTypeID: byCode["DSL"].ID, CapacityLitres: 8000, CurrentStock: 5200, ReorderLevel: 1500},
		{TankNumber: "T3", FuelTypeID: byCode["HO"].ID, CapacityLitres: 5000, CurrentStock: 1800, ReorderLevel: 1000},
	}
	for i := range tanks {
		if err := DB.Create(&tanks[i]).Error; err != nil {
			return err
		}
	}
	log.Printf("Created %d tanks", len(tanks))
	return nil
}
