package statistics

import (
	"testing"
	"time"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubRepo struct {
	sub *models.Subscription
}

func (f *fakeSubRepo) GetCurrentByUser(userID uint) (*models.Subscription, error) {
	return f.sub, nil
}

func (f *fakeSubRepo) GetByID(id uint) (*models.Subscription, error) {
	return f.sub, nil
}

type fakeListingRepo struct {
	active   int64
	featured int64
}

func (f *fakeListingRepo) CountActiveByUser(userID uint) (int64, error)   { return f.active, nil }
func (f *fakeListingRepo) CountFeaturedByUser(userID uint) (int64, error) { return f.featured, nil }
func (f *fakeListingRepo) CountPhotosByListing(id uint) (int64, error)    { return 0, nil }
func (f *fakeListingRepo) GetByID(id uint) (*models.Listing, error)       { return nil, nil }

func TestBuildStatisticsWithoutSubscription(t *testing.T) {
	svc := NewService(&fakeSubRepo{}, &fakeListingRepo{active: 1})

	stats, err := svc.buildUserStatistics(7)
	require.NoError(t, err)

	assert.Equal(t, "none", stats.Subscription.Status)
	assert.Equal(t, "free", stats.Subscription.PlanSlug)
	assert.Equal(t, 1, stats.Listings.Used)
	assert.Equal(t, 2, stats.Listings.Limit)
	assert.Equal(t, 1, stats.Listings.Remaining)
	assert.Equal(t, 0, stats.FeaturedListings.Limit)
}

func TestBuildStatisticsActiveSubscription(t *testing.T) {
	end := time.Now().AddDate(0, 1, 0)
	sub := &models.Subscription{
		ID: 1, UserID: 7, PlanID: 2,
		Plan: models.Plan{
			ID: 2, Slug: "starter", Name: "Starter",
			MaxListings: 5, MaxPhotosPerListing: 10, MaxFeaturedListings: 1,
			HasFeaturedBadge: true,
		},
		Status:           models.SubscriptionStatusActive,
		BillingCycle:     models.BillingCycleMonthly,
		CurrentPeriodEnd: &end,
	}
	svc := NewService(&fakeSubRepo{sub: sub}, &fakeListingRepo{active: 3, featured: 1})

	stats, err := svc.buildUserStatistics(7)
	require.NoError(t, err)

	assert.Equal(t, models.SubscriptionStatusActive, stats.Subscription.Status)
	assert.Equal(t, "starter", stats.Subscription.PlanSlug)
	assert.Equal(t, 2, stats.Listings.Remaining)
	assert.Equal(t, 0, stats.FeaturedListings.Remaining)
	assert.Equal(t, 10, stats.PhotosPerListing)
	assert.True(t, stats.Features.FeaturedBadge)
}

func TestBuildStatisticsPendingSubscriptionGetsFreeQuota(t *testing.T) {
	sub := &models.Subscription{
		ID: 1, UserID: 7, PlanID: 2,
		Plan:   models.Plan{ID: 2, Slug: "starter", Name: "Starter", MaxListings: 5},
		Status: models.SubscriptionStatusPendingPayment,
	}
	svc := NewService(&fakeSubRepo{sub: sub}, &fakeListingRepo{})

	stats, err := svc.buildUserStatistics(7)
	require.NoError(t, err)

	// An unpaid subscription grants nothing beyond the free tier.
	assert.Equal(t, models.SubscriptionStatusPendingPayment, stats.Subscription.Status)
	assert.Equal(t, "free", stats.Subscription.PlanSlug)
	assert.Equal(t, 2, stats.Listings.Limit)
}

func TestBuildStatisticsOverQuotaFloorsAtZero(t *testing.T) {
	svc := NewService(&fakeSubRepo{}, &fakeListingRepo{active: 9})

	stats, err := svc.buildUserStatistics(7)
	require.NoError(t, err)

	assert.Equal(t, 9, stats.Listings.Used)
	assert.Equal(t, 0, stats.Listings.Remaining)
}

func TestBuildStatisticsUnlimitedPlan(t *testing.T) {
	sub := &models.Subscription{
		ID: 1, UserID: 7, PlanID: 4,
		Plan: models.Plan{
			ID: 4, Slug: "enterprise", Name: "Enterprise",
			MaxListings: models.UnlimitedQuota, MaxFeaturedListings: models.UnlimitedQuota,
		},
		Status: models.SubscriptionStatusActive,
	}
	svc := NewService(&fakeSubRepo{sub: sub}, &fakeListingRepo{active: 120, featured: 40})

	stats, err := svc.buildUserStatistics(7)
	require.NoError(t, err)

	assert.Equal(t, models.UnlimitedQuota, stats.Listings.Remaining)
	assert.Equal(t, models.UnlimitedQuota, stats.FeaturedListings.Remaining)
}
