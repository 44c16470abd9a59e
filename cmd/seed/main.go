package main

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bikerental/internal/database"
	"bikerental/internal/domain"
)

func main() {
	db, err := database.Connect("bikerental.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM reviews")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM inventory_records")
	db.Exec("DELETE FROM vehicles")
	db.Exec("DELETE FROM shops")
	db.Exec("DELETE FROM users")

	log.Println("Creating users...")

	ownerHash, _ := bcrypt.GenerateFromPassword([]byte("owner123"), bcrypt.DefaultCost)
	owner := domain.User{
		Email:        "owner@bikerental.dev",
		PasswordHash: string(ownerHash),
		Name:         "Shop Owner",
		Role:         domain.RoleShopOwner,
	}
	db.Create(&owner)

	customerHash, _ := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
	customer := domain.User{
		Email:        "customer@bikerental.dev",
		PasswordHash: string(customerHash),
		Name:         "Demo Customer",
		Role:         domain.RoleCustomer,
	}
	db.Create(&customer)

	log.Println("Creating shop and vehicles...")

	shop := domain.Shop{
		OwnerID:  owner.ID,
		Name:     "Downtown Bikes",
		Phone:    "+1-555-0100",
		Address:  "1 Main St",
		City:     "Portland",
		IsActive: true,
	}
	db.Create(&shop)

	vehicles := []domain.Vehicle{
		{
			ShopID:            shop.ID,
			Name:              "Trail Blazer",
			Model:             "TB-900",
			Type:              domain.VehicleMountain,
			PricePerHourCents: 1200,
			PricePerDayCents:  6500,
			Condition:         domain.ConditionExcellent,
			IsAvailable:       true,
		},
		{
			ShopID:            shop.ID,
			Name:              "City Cruiser",
			Model:             "CC-200",
			Type:              domain.VehicleHybrid,
			PricePerHourCents: 800,
			PricePerDayCents:  4000,
			Condition:         domain.ConditionGood,
			IsAvailable:       true,
		},
		{
			ShopID:            shop.ID,
			Name:              "Volt Rider",
			Model:             "VR-1",
			Type:              domain.VehicleElectric,
			PricePerHourCents: 2000,
			PricePerDayCents:  9900,
			Condition:         domain.ConditionExcellent,
			IsAvailable:       true,
		},
	}
	for i := range vehicles {
		db.Create(&vehicles[i])
	}

	log.Println("Stocking inventory...")

	totals := []int{3, 5, 2}
	now := time.Now().UTC()
	for i, v := range vehicles {
		db.Create(&domain.InventoryRecord{
			VehicleID: v.ID,
			Total:     totals[i],
			Available: totals[i],
			Rented:    0,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	log.Println("Seed complete.")
	log.Printf("owner login: owner@bikerental.dev / owner123")
	log.Printf("customer login: customer@bikerental.dev / customer123")
}
