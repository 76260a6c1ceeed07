package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ListingStatusActive   = "active"
	ListingStatusDraft    = "draft"
	ListingStatusArchived = "archived"
)

// Listing is the minimal property-listing row this service needs: the
// entitlement engine only consumes per-user counts, the listing CRUD screens
// live in another service.
type Listing struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index:idx_listings_user_status,priority:1" json:"user_id"`
	User       User           `gorm:"foreignKey:UserID" json:"-"`
	Title      string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Status     string         `gorm:"type:varchar(16);not null;default:'active';index:idx_listings_user_status,priority:2" json:"status"`
	IsFeatured bool           `gorm:"default:false;index" json:"is_featured"`
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// ListingPhoto tracks one uploaded photo per row; only the count per listing
// matters here.
type ListingPhoto struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	Listing   Listing   `gorm:"foreignKey:ListingID" json:"-"`
	URL       string    `gorm:"type:varchar(500);not null" json:"url"`
	SortOrder int       `gorm:"default:0" json:"sort_order"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
