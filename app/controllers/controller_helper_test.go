package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanapbahay/hanapbahay/internal/pkg/payments"
	"github.com/hanapbahay/hanapbahay/internal/pkg/plancatalog"
	"github.com/hanapbahay/hanapbahay/internal/pkg/subscription"
)

type envelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestRespondServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"plan not found", plancatalog.ErrPlanNotFound, fiber.StatusNotFound, "plan_not_found"},
		{"payment not found", payments.ErrIntentNotFound, fiber.StatusNotFound, "payment_not_found"},
		{"not owner", payments.ErrNotIntentOwner, fiber.StatusForbidden, "forbidden"},
		{"duplicate open payment", payments.ErrDuplicateActiveIntent, fiber.StatusConflict, "duplicate_payment"},
		{"already subscribed", payments.ErrAlreadySubscribed, fiber.StatusConflict, "already_subscribed"},
		{"cycle mismatch", payments.ErrInvalidBillingCycle, fiber.StatusUnprocessableEntity, "invalid_billing_cycle"},
		{"empty reference", payments.ErrInvalidReference, fiber.StatusUnprocessableEntity, "invalid_reference"},
		{"already resolved", payments.ErrAlreadyResolved, fiber.StatusConflict, "payment_resolved"},
		{"not submitted", payments.ErrNotSubmitted, fiber.StatusConflict, "payment_not_submitted"},
		{"reason required", payments.ErrReasonRequired, fiber.StatusUnprocessableEntity, "reason_required"},
		{"state conflict", payments.ErrStateConflict, fiber.StatusConflict, "state_conflict"},
		{"activation race", subscription.ErrAlreadyHasActiveSubscription, fiber.StatusConflict, "already_subscribed"},
		{"nothing to cancel", subscription.ErrNotActive, fiber.StatusConflict, "no_active_subscription"},
		{"unknown error", errors.New("database exploded"), fiber.StatusInternalServerError, "internal_error"},
	}

	app := fiber.New()
	for i, tt := range tests {
		err := tt.err
		app.Get(fmt.Sprintf("/err/%d", i), func(c *fiber.Ctx) error {
			return respondServiceError(c, err)
		})
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", fmt.Sprintf("/err/%d", i), nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body envelope
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestRespondDataEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return respondData(c, fiber.StatusCreated, fiber.Map{"payment_id": 7})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.EqualValues(t, 7, body.Data["payment_id"])
}

func TestRespondServiceErrorHidesInternalDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return respondServiceError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.Error.Message, "10.0.0.5")
}
