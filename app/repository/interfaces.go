package repository

import (
	"github.com/hanapbahay/hanapbahay/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, error)
	Update(user *models.User) error
	TouchAPIKeyUsage(userID uint) error
	Count() (int64, error)
}

// PlanRepository defines the interface for plan catalog reads. Plans are
// reference data; there are no mutation methods.
type PlanRepository interface {
	GetByID(id uint) (*models.Plan, error)
	GetBySlug(slug string) (*models.Plan, error)
	ListActiveOrderedByPrice() ([]models.Plan, error)
}

// SubscriptionRepository defines read access to subscription rows. Status
// transitions go through the payments repository so they stay inside the
// verification transaction.
type SubscriptionRepository interface {
	GetCurrentByUser(userID uint) (*models.Subscription, error)
	GetByID(id uint) (*models.Subscription, error)
}

// ListingRepository exposes the live usage counts the entitlement engine
// joins against plan quotas.
type ListingRepository interface {
	CountActiveByUser(userID uint) (int64, error)
	CountFeaturedByUser(userID uint) (int64, error)
	CountPhotosByListing(listingID uint) (int64, error)
	GetByID(id uint) (*models.Listing, error)
}

// SettingRepository defines the interface for setting-related operations.
// It also supplies the payment-channel block the payment service hands to
// payers.
type SettingRepository interface {
	Get() (*models.AppSettings, error)
	GetValue(key string) (string, error)
	SetValue(key, value string) error
	GetPaymentChannel() models.PaymentChannel
}

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Plan         PlanRepository
	Subscription SubscriptionRepository
	Listing      ListingRepository
	Setting      SettingRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Plan:         NewPlanRepository(db),
		Subscription: NewSubscriptionRepository(db),
		Listing:      NewListingRepository(db),
		Setting:      NewSettingRepository(db),
	}
}
