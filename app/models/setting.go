package models

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
)

// Setting represents a system setting row (key/value with a declared type)
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:setting_key;size:255;not null;uniqueIndex" json:"key" validate:"required,min=1,max=255"`
	Value     string    `gorm:"type:text" json:"value"`
	Type      string    `gorm:"size:50;not null" json:"type" validate:"required"` // string, boolean, integer, float
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AppSettings holds the in-memory view of the settings table. The payment
// channel block is what subscribers see when they are asked to pay: which
// wallet/bank to send to, the QR image to scan and the transfer instructions.
type AppSettings struct {
	SiteTitle           string `json:"site_title"`
	PaymentChannelName  string `json:"payment_channel_name"`
	PaymentQRCodeURL    string `json:"payment_qr_code_url"`
	PaymentInstructions string `json:"payment_instructions"`
	mu                  sync.RWMutex
}

var (
	appSettings *AppSettings
	settingsMu  sync.RWMutex
)

// GetAppSettings returns the current application settings
func GetAppSettings() *AppSettings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return appSettings
}

// LoadSettings loads settings from database into memory
func LoadSettings(db *gorm.DB) error {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	// Defaults apply when the table has no row for a key yet
	appSettings = &AppSettings{
		SiteTitle:           "HanapBahay",
		PaymentChannelName:  "GCash",
		PaymentQRCodeURL:    "",
		PaymentInstructions: "Scan the QR code, send the exact amount and keep the reference number from your receipt.",
	}

	var settings []Setting
	if err := db.Find(&settings).Error; err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	for _, s := range settings {
		switch s.Key {
		case "site_title":
			appSettings.SiteTitle = s.Value
		case "payment_channel_name":
			appSettings.PaymentChannelName = s.Value
		case "payment_qr_code_url":
			appSettings.PaymentQRCodeURL = s.Value
		case "payment_instructions":
			appSettings.PaymentInstructions = s.Value
		}
	}

	return nil
}

// PaymentChannel is the read-only payment-channel view handed to payers.
type PaymentChannel struct {
	ChannelName  string `json:"channel_name"`
	QRCodeURL    string `json:"qr_code_url"`
	Instructions string `json:"instructions"`
}

// GetPaymentChannel returns the configured payment channel details.
func (s *AppSettings) GetPaymentChannel() PaymentChannel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return PaymentChannel{
		ChannelName:  s.PaymentChannelName,
		QRCodeURL:    s.PaymentQRCodeURL,
		Instructions: s.PaymentInstructions,
	}
}
