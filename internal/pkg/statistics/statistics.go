package statistics

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hanapbahay/hanapbahay/app/repository"
	"github.com/hanapbahay/hanapbahay/internal/pkg/cache"
	"github.com/hanapbahay/hanapbahay/internal/pkg/entitlements"
)

const (
	userStatsCacheKeyFmt = "statistics:user:%d"
	userStatsCacheTTL    = 2 * time.Minute
)

// SubscriptionSummary is the subscription slice of a usage snapshot.
type SubscriptionSummary struct {
	Status           string     `json:"status"`
	PlanID           uint       `json:"plan_id"`
	PlanName         string     `json:"plan_name"`
	PlanSlug         string     `json:"plan_slug"`
	BillingCycle     string     `json:"billing_cycle,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
}

// QuotaUsage pairs a live count with its plan limit. Limit -1 means unlimited.
type QuotaUsage struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// UserStatistics is the full usage and quota snapshot for one user.
type UserStatistics struct {
	UserID           uint                  `json:"user_id"`
	Subscription     SubscriptionSummary   `json:"subscription"`
	Listings         QuotaUsage            `json:"listings"`
	FeaturedListings QuotaUsage            `json:"featured_listings"`
	PhotosPerListing int                   `json:"photos_per_listing_limit"`
	Features         entitlements.Features `json:"features"`
	GeneratedAt      time.Time             `json:"generated_at"`
}

// Service builds usage snapshots from live counts and the user's effective
// plan, with a short Redis cache in front so dashboard polling stays cheap.
type Service struct {
	subs     repository.SubscriptionRepository
	listings repository.ListingRepository
}

func NewService(subs repository.SubscriptionRepository, listings repository.ListingRepository) *Service {
	return &Service{subs: subs, listings: listings}
}

// GetUserStatistics returns the cached snapshot when fresh, otherwise builds
// a new one. Cache failures degrade to a direct build.
func (s *Service) GetUserStatistics(userID uint) (*UserStatistics, error) {
	key := fmt.Sprintf(userStatsCacheKeyFmt, userID)
	if raw, err := cache.Get(key); err == nil && raw != "" {
		var stats UserStatistics
		if err := json.Unmarshal([]byte(raw), &stats); err == nil {
			return &stats, nil
		}
	}

	stats, err := s.buildUserStatistics(userID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := cache.Set(key, string(raw), userStatsCacheTTL); err != nil {
			log.Printf("Failed to cache statistics for user %d: %v", userID, err)
		}
	}
	return stats, nil
}

// Invalidate drops the cached snapshot, used after a verification or a
// listing change so the next read reflects the new state.
func Invalidate(userID uint) {
	if err := cache.Delete(fmt.Sprintf(userStatsCacheKeyFmt, userID)); err != nil {
		log.Printf("Failed to invalidate statistics cache for user %d: %v", userID, err)
	}
}

func (s *Service) buildUserStatistics(userID uint) (*UserStatistics, error) {
	sub, err := s.subs.GetCurrentByUser(userID)
	if err != nil {
		return nil, err
	}
	plan := entitlements.EffectivePlan(sub)

	activeListings, err := s.listings.CountActiveByUser(userID)
	if err != nil {
		return nil, err
	}
	featured, err := s.listings.CountFeaturedByUser(userID)
	if err != nil {
		return nil, err
	}

	usage := entitlements.Usage{
		ActiveListings:   int(activeListings),
		FeaturedListings: int(featured),
	}

	summary := SubscriptionSummary{
		Status:   "none",
		PlanID:   plan.ID,
		PlanName: plan.Name,
		PlanSlug: plan.Slug,
	}
	if sub != nil {
		summary.Status = sub.Status
		summary.BillingCycle = sub.BillingCycle
		summary.CurrentPeriodEnd = sub.CurrentPeriodEnd
		summary.CancelledAt = sub.CancelledAt
	}

	return &UserStatistics{
		UserID:       userID,
		Subscription: summary,
		Listings: QuotaUsage{
			Used:      usage.ActiveListings,
			Limit:     plan.MaxListings,
			Remaining: entitlements.RemainingListings(plan, usage),
		},
		FeaturedListings: QuotaUsage{
			Used:      usage.FeaturedListings,
			Limit:     plan.MaxFeaturedListings,
			Remaining: entitlements.RemainingFeatured(plan, usage),
		},
		PhotosPerListing: plan.MaxPhotosPerListing,
		Features:         entitlements.PlanFeatures(plan),
		GeneratedAt:      time.Now(),
	}, nil
}
