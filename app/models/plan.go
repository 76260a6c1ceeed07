package models

import "time"

const (
	BillingCycleMonthly = "monthly"
	BillingCycleYearly  = "yearly"
)

// UnlimitedQuota marks a plan limit as unbounded.
const UnlimitedQuota = -1

// Plan is a read-only subscription tier definition. Rows are seeded via
// migrations and never mutated by the application.
type Plan struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Slug                 string    `gorm:"type:varchar(100);not null;uniqueIndex" json:"slug"`
	Name                 string    `gorm:"type:varchar(150);not null" json:"name" validate:"required,max=150"`
	Description          string    `gorm:"type:text" json:"description"`
	Price                int64     `gorm:"not null;default:0;index" json:"price"` // centavos
	Currency             string    `gorm:"type:varchar(3);not null;default:'PHP'" json:"currency"`
	BillingCycle         string    `gorm:"type:varchar(16);not null;default:'monthly'" json:"billing_cycle" validate:"oneof=monthly yearly"`
	MaxListings          int       `gorm:"not null;default:0" json:"max_listings"` // -1 = unlimited
	MaxPhotosPerListing  int       `gorm:"not null;default:0" json:"max_photos_per_listing"`
	MaxFeaturedListings  int       `gorm:"not null;default:0" json:"max_featured_listings"`
	HasVideo             bool      `gorm:"default:false" json:"has_video"`
	HasVirtualTour       bool      `gorm:"default:false" json:"has_virtual_tour"`
	HasPrioritySupport   bool      `gorm:"default:false" json:"has_priority_support"`
	HasAdvancedAnalytics bool      `gorm:"default:false" json:"has_advanced_analytics"`
	HasFeaturedBadge     bool      `gorm:"default:false" json:"has_featured_badge"`
	IsPopular            bool      `gorm:"default:false" json:"is_popular"`
	IsActive             bool      `gorm:"default:true;index" json:"is_active"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasUnlimitedListings reports whether the plan has no listing cap.
func (p *Plan) HasUnlimitedListings() bool {
	return p.MaxListings == UnlimitedQuota
}

// HasUnlimitedFeatured reports whether the plan has no featured-listing cap.
func (p *Plan) HasUnlimitedFeatured() bool {
	return p.MaxFeaturedListings == UnlimitedQuota
}

// CycleLength returns the calendar length of one billing cycle of the plan.
// Period arithmetic uses AddDate so month boundaries behave like the billing
// dates sellers expect.
func (p *Plan) CycleLength(from time.Time) time.Time {
	if p.BillingCycle == BillingCycleYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

// FreePlan is the entitlement fallback for accounts without an active
// subscription. It intentionally mirrors the seeded "free" row so entitlement
// checks still work when the catalog is unreachable.
func FreePlan() *Plan {
	return &Plan{
		Slug:                "free",
		Name:                "Free",
		Price:               0,
		Currency:            "PHP",
		BillingCycle:        BillingCycleMonthly,
		MaxListings:         2,
		MaxPhotosPerListing: 5,
		MaxFeaturedListings: 0,
		IsActive:            true,
	}
}
