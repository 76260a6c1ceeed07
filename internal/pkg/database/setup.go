package database

import (
	"fmt"
	"log"
	"time"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/internal/pkg/env"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

func SetupDatabase() {
	var err error
	// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       dsn,
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{})
		if err == nil {
			DB.AutoMigrate(
				&models.User{},
				&models.Plan{},
				&models.Subscription{},
				&models.PaymentIntent{},
				&models.PaymentAuditLog{},
				&models.Listing{},
				&models.ListingPhoto{},
				&models.Notification{},
				&models.Setting{},
			)

			seedPlans(DB)

			if err := models.LoadSettings(DB); err != nil {
				log.Printf("Failed to load settings: %v", err)
			}

			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			log.Printf("Retrying in %v...", retryDelay)
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// GetDB returns the global database handle
func GetDB() *gorm.DB {
	return DB
}

// seedPlans inserts the default plan catalog when the table is empty. Plans
// are reference data; operators adjust them via migrations, not the app.
func seedPlans(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Plan{}).Count(&count).Error; err != nil {
		log.Printf("Failed to count plans: %v", err)
		return
	}
	if count > 0 {
		return
	}

	plans := []models.Plan{
		*models.FreePlan(),
		{
			Slug:                "starter",
			Name:                "Starter",
			Description:         "For independent agents getting started",
			Price:               49900,
			Currency:            "PHP",
			BillingCycle:        models.BillingCycleMonthly,
			MaxListings:         5,
			MaxPhotosPerListing: 10,
			MaxFeaturedListings: 1,
			IsActive:            true,
		},
		{
			Slug:                "professional",
			Name:                "Professional",
			Description:         "For brokers with a growing portfolio",
			Price:               99900,
			Currency:            "PHP",
			BillingCycle:        models.BillingCycleMonthly,
			MaxListings:         20,
			MaxPhotosPerListing: 20,
			MaxFeaturedListings: 5,
			HasVideo:            true,
			HasVirtualTour:      true,
			HasFeaturedBadge:    true,
			IsPopular:           true,
			IsActive:            true,
		},
		{
			Slug:                 "enterprise",
			Name:                 "Enterprise",
			Description:          "For agencies, unlimited listings",
			Price:                199900,
			Currency:             "PHP",
			BillingCycle:         models.BillingCycleMonthly,
			MaxListings:          models.UnlimitedQuota,
			MaxPhotosPerListing:  50,
			MaxFeaturedListings:  20,
			HasVideo:             true,
			HasVirtualTour:       true,
			HasPrioritySupport:   true,
			HasAdvancedAnalytics: true,
			HasFeaturedBadge:     true,
			IsActive:             true,
		},
	}

	if err := db.Create(&plans).Error; err != nil {
		log.Printf("Failed to seed plans: %v", err)
	}
}
