package entitlements

import (
	"github.com/hanapbahay/hanapbahay/app/models"
)

// Usage holds the live counts the quota checks are evaluated against.
type Usage struct {
	ActiveListings   int
	FeaturedListings int
}

// EffectivePlan resolves the plan a user is entitled to right now: the plan
// of an active subscription, otherwise the free fallback. Pending or rejected
// payments never contribute entitlements.
func EffectivePlan(sub *models.Subscription) *models.Plan {
	if sub != nil && sub.IsActive() {
		return &sub.Plan
	}
	return models.FreePlan()
}

// RemainingListings returns how many more listings the plan allows.
// models.UnlimitedQuota means no cap; otherwise the result never goes
// below zero even when usage exceeds the cap (after a downgrade).
func RemainingListings(plan *models.Plan, usage Usage) int {
	if plan.HasUnlimitedListings() {
		return models.UnlimitedQuota
	}
	return remaining(plan.MaxListings, usage.ActiveListings)
}

// RemainingFeatured returns how many more featured slots the plan allows.
func RemainingFeatured(plan *models.Plan, usage Usage) int {
	if plan.HasUnlimitedFeatured() {
		return models.UnlimitedQuota
	}
	return remaining(plan.MaxFeaturedListings, usage.FeaturedListings)
}

func remaining(limit, used int) int {
	if used >= limit {
		return 0
	}
	return limit - used
}

// CanCreateListing reports whether the plan leaves room for one more listing.
func CanCreateListing(plan *models.Plan, usage Usage) bool {
	return plan.HasUnlimitedListings() || RemainingListings(plan, usage) > 0
}

// CanFeatureListing reports whether the plan leaves room for one more
// featured listing.
func CanFeatureListing(plan *models.Plan, usage Usage) bool {
	return plan.HasUnlimitedFeatured() || RemainingFeatured(plan, usage) > 0
}

// CanUploadPhoto reports whether one more photo fits on a listing that
// already holds photoCount photos.
func CanUploadPhoto(plan *models.Plan, photoCount int) bool {
	if plan.MaxPhotosPerListing == models.UnlimitedQuota {
		return true
	}
	return photoCount < plan.MaxPhotosPerListing
}

// Features is the plan feature-flag block passed through to clients. Flags
// come straight from the plan and carry no usage dependency.
type Features struct {
	Video             bool `json:"video"`
	VirtualTour       bool `json:"virtual_tour"`
	PrioritySupport   bool `json:"priority_support"`
	AdvancedAnalytics bool `json:"advanced_analytics"`
	FeaturedBadge     bool `json:"featured_badge"`
}

// PlanFeatures extracts the feature flags of a plan.
func PlanFeatures(plan *models.Plan) Features {
	return Features{
		Video:             plan.HasVideo,
		VirtualTour:       plan.HasVirtualTour,
		PrioritySupport:   plan.HasPrioritySupport,
		AdvancedAnalytics: plan.HasAdvancedAnalytics,
		FeaturedBadge:     plan.HasFeaturedBadge,
	}
}
