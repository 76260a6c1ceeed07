package controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hanapbahay/hanapbahay/internal/pkg/payments"
	"github.com/hanapbahay/hanapbahay/internal/pkg/plancatalog"
	"github.com/hanapbahay/hanapbahay/internal/pkg/subscription"
)

// respondData wraps a successful payload in the uniform API envelope.
func respondData(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// respondError wraps a failure in the uniform API envelope.
func respondError(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   fiber.Map{"code": code, "message": message},
	})
}

// respondServiceError translates service sentinels into HTTP status and error
// codes. Anything unmapped is a 500 with the detail kept out of the response.
func respondServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, plancatalog.ErrPlanNotFound):
		return respondError(c, fiber.StatusNotFound, "plan_not_found", "The requested plan does not exist")
	case errors.Is(err, payments.ErrIntentNotFound):
		return respondError(c, fiber.StatusNotFound, "payment_not_found", "The requested payment does not exist")
	case errors.Is(err, payments.ErrNotIntentOwner):
		return respondError(c, fiber.StatusForbidden, "forbidden", "This payment belongs to another user")
	case errors.Is(err, payments.ErrDuplicateActiveIntent):
		return respondError(c, fiber.StatusConflict, "duplicate_payment", "An open payment already exists, complete or wait for it first")
	case errors.Is(err, payments.ErrAlreadySubscribed):
		return respondError(c, fiber.StatusConflict, "already_subscribed", "You are already subscribed to this plan")
	case errors.Is(err, payments.ErrInvalidBillingCycle):
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_billing_cycle", "The billing cycle does not match the plan")
	case errors.Is(err, payments.ErrInvalidReference):
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_reference", "A non-empty reference number is required")
	case errors.Is(err, payments.ErrAlreadyResolved):
		return respondError(c, fiber.StatusConflict, "payment_resolved", "This payment has already been verified or rejected")
	case errors.Is(err, payments.ErrNotSubmitted):
		return respondError(c, fiber.StatusConflict, "payment_not_submitted", "This payment has no reference number yet")
	case errors.Is(err, payments.ErrReasonRequired):
		return respondError(c, fiber.StatusUnprocessableEntity, "reason_required", "A rejection reason is required")
	case errors.Is(err, payments.ErrStateConflict):
		return respondError(c, fiber.StatusConflict, "state_conflict", "The payment was resolved by someone else, reload and review")
	case errors.Is(err, subscription.ErrAlreadyHasActiveSubscription):
		return respondError(c, fiber.StatusConflict, "already_subscribed", "An active subscription already exists for this user")
	case errors.Is(err, subscription.ErrNotActive):
		return respondError(c, fiber.StatusConflict, "no_active_subscription", "There is no active subscription to cancel")
	default:
		log.Printf("unhandled service error: %v", err)
		return respondError(c, fiber.StatusInternalServerError, "internal_error", "Something went wrong")
	}
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
