package repository

import (
	"testing"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/internal/pkg/payments"
	"github.com/stretchr/testify/assert"
)

// The payment service reads its channel details through the settings
// repository, not the models package directly.
var _ payments.ChannelProvider = (SettingRepository)(nil)

func TestGetPaymentChannelBeforeSettingsLoad(t *testing.T) {
	repo := &settingRepository{}

	// Nothing loaded yet: payers get an empty channel block, not a panic.
	assert.Equal(t, models.PaymentChannel{}, repo.GetPaymentChannel())
}
