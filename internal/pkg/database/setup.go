package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mdnexus/nexus-server/app/models"
	"github.com/mdnexus/nexus-server/internal/pkg/config"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var db *gorm.DB

// SetupDatabase connects to Postgres and migrates the schema. The database
// container may still be starting when the app boots, hence the retry loop.
func SetupDatabase(cfg *config.Config) {
	var err error
	dsn := cfg.DatabaseDSN()

	for i := 0; i < maxRetries; i++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			db.AutoMigrate(
				&models.FormSubmission{},
				&models.Contact{},
				&models.Payment{},
				&models.EmailLog{},
				&models.AdminEmailSetting{},
				&models.FileUpload{},
			)

			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retry in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// GetDB returns the shared GORM handle.
func GetDB() *gorm.DB {
	return db
}
