package repository

import (
	"errors"

	"github.com/hanapbahay/hanapbahay/app/models"
	"gorm.io/gorm"
)

// settingRepository implements the SettingRepository interface
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository instance
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get retrieves the current application settings
func (r *settingRepository) Get() (*models.AppSettings, error) {
	return models.GetAppSettings(), nil
}

// GetValue retrieves a specific setting value by key
func (r *settingRepository) GetValue(key string) (string, error) {
	var setting models.Setting
	// Column is `setting_key` (see gorm tag in models.Setting)
	err := r.db.Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil // Return empty string for non-existent settings
		}
		return "", err
	}
	return setting.Value, nil
}

// GetPaymentChannel returns the payment-channel block shown to payers. It
// reads the settings snapshot loaded at boot; ops edits take effect after the
// next LoadSettings run.
func (r *settingRepository) GetPaymentChannel() models.PaymentChannel {
	settings, err := r.Get()
	if err != nil || settings == nil {
		return models.PaymentChannel{}
	}
	return settings.GetPaymentChannel()
}

// SetValue sets a specific setting value by key
func (r *settingRepository) SetValue(key, value string) error {
	var setting models.Setting
	err := r.db.Where("setting_key = ?", key).First(&setting).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.Setting{
			Key:   key,
			Value: value,
			Type:  "string",
		}
		return r.db.Create(&setting).Error
	}
	if err != nil {
		return err
	}

	setting.Value = value
	return r.db.Save(&setting).Error
}
