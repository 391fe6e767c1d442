package database

import (
	"fmt"
	"log"

	"pricetracker/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// DB is the shared database handle.
var DB *gorm.DB

func ConnectDatabase(dsn string) {
	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	fmt.Println("✅ Database connected successfully!")

	if err := Migrate(DB); err != nil {
		log.Fatalf("❌ Failed to migrate the database: %v\n", err)
	}
	fmt.Println("✅ Database migrated successfully!")
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.TrackedProduct{},
		&models.PriceObservation{},
		&models.Alert{},
		&models.Request{},
		&models.Candidate{},
		&models.Notification{},
		&models.JobLog{},
	)
}
