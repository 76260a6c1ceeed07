package repository

import (
	"github.com/hanapbahay/hanapbahay/app/models"
	"gorm.io/gorm"
)

// listingRepository implements the ListingRepository interface
type listingRepository struct {
	db *gorm.DB
}

// NewListingRepository creates a new listing repository instance
func NewListingRepository(db *gorm.DB) ListingRepository {
	return &listingRepository{db: db}
}

// CountActiveByUser counts a user's active listings
func (r *listingRepository) CountActiveByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Listing{}).
		Where("user_id = ? AND status = ?", userID, models.ListingStatusActive).
		Count(&count).Error
	return count, err
}

// CountFeaturedByUser counts a user's active featured listings
func (r *listingRepository) CountFeaturedByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Listing{}).
		Where("user_id = ? AND status = ? AND is_featured = ?", userID, models.ListingStatusActive, true).
		Count(&count).Error
	return count, err
}

// CountPhotosByListing counts the photos attached to one listing
func (r *listingRepository) CountPhotosByListing(listingID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.ListingPhoto{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error
	return count, err
}

// GetByID retrieves a listing by its ID
func (r *listingRepository) GetByID(id uint) (*models.Listing, error) {
	var listing models.Listing
	err := r.db.First(&listing, id).Error
	if err != nil {
		return nil, err
	}
	return &listing, nil
}
