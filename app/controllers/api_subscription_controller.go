package controllers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/app/repository"
	"github.com/hanapbahay/hanapbahay/internal/pkg/entitlements"
	"github.com/hanapbahay/hanapbahay/internal/pkg/statistics"
	"github.com/hanapbahay/hanapbahay/internal/pkg/subscription"
	"github.com/hanapbahay/hanapbahay/internal/pkg/usercontext"
)

type subscribeRequest struct {
	PlanID        uint   `json:"plan_id"`
	BillingCycle  string `json:"billing_cycle"`
	PaymentMethod string `json:"payment_method"`
}

type submitReferenceRequest struct {
	PaymentID       uint   `json:"payment_id"`
	ReferenceNumber string `json:"reference_number"`
}

// HandleListPlans returns the sellable plans ordered by price. Public, no
// authentication required.
func HandleListPlans(c *fiber.Ctx) error {
	initServices()

	plans, err := planCatalog.ListPlans()
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"plans": plans})
}

// HandleSubscribe opens a payment intent for a plan and returns the payment
// instructions the buyer needs to send the money.
func HandleSubscribe(c *fiber.Ctx) error {
	initServices()
	userCtx := usercontext.GetUserContext(c)

	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "Malformed request body")
	}
	if req.PlanID == 0 {
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_request", "plan_id is required")
	}
	// QR transfer is the only supported channel.
	if m := strings.ToLower(strings.TrimSpace(req.PaymentMethod)); m != "" && m != "qr" && m != "qr_transfer" {
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_request", "payment_method must be qr_transfer")
	}

	receipt, err := paymentService.CreateIntent(c.Context(), userCtx.UserID, req.PlanID, req.BillingCycle)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, fiber.StatusCreated, receipt)
}

// HandleSubmitReference records the self-reported transfer reference for an
// open payment and queues it for admin review.
func HandleSubmitReference(c *fiber.Ctx) error {
	initServices()
	userCtx := usercontext.GetUserContext(c)

	var req submitReferenceRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "Malformed request body")
	}
	if req.PaymentID == 0 {
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_request", "payment_id is required")
	}

	intent, err := paymentService.SubmitReference(c.Context(), userCtx.UserID, req.PaymentID, req.ReferenceNumber)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, fiber.StatusOK, paymentPayload(intent))
}

// HandleCancelSubscription soft-cancels the caller's active subscription. The
// plan stays usable until the paid period ends.
func HandleCancelSubscription(c *fiber.Ctx) error {
	initServices()
	userCtx := usercontext.GetUserContext(c)

	sub, err := subscription.Cancel(subscriptionRead, userCtx.UserID, time.Now())
	if err != nil {
		return respondServiceError(c, err)
	}

	statistics.Invalidate(userCtx.UserID)
	return respondData(c, fiber.StatusOK, subscriptionPayload(sub))
}

// HandleGetCurrentSubscription returns the caller's subscription together
// with the plan their entitlements are currently computed from.
func HandleGetCurrentSubscription(c *fiber.Ctx) error {
	initServices()
	userCtx := usercontext.GetUserContext(c)

	sub, err := repository.GetGlobalRepositories().Subscription.GetCurrentByUser(userCtx.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	plan := entitlements.EffectivePlan(sub)
	payload := fiber.Map{
		"subscription":   nil,
		"effective_plan": plan,
		"features":       entitlements.PlanFeatures(plan),
	}
	if sub != nil {
		payload["subscription"] = subscriptionPayload(sub)
	}
	return respondData(c, fiber.StatusOK, payload)
}

// HandleListPayments returns the caller's payment history, newest first.
func HandleListPayments(c *fiber.Ctx) error {
	initServices()
	userCtx := usercontext.GetUserContext(c)

	history, err := paymentService.History(c.Context(), userCtx.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	items := make([]fiber.Map, 0, len(history))
	for i := range history {
		items = append(items, paymentPayload(&history[i]))
	}
	return respondData(c, fiber.StatusOK, fiber.Map{"payments": items})
}

// HandleGetPayment returns one of the caller's own payments.
func HandleGetPayment(c *fiber.Ctx) error {
	initServices()
	userCtx := usercontext.GetUserContext(c)

	paymentID, err := c.ParamsInt("id")
	if err != nil || paymentID <= 0 {
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_request", "A numeric payment id is required")
	}

	intent, err := paymentService.GetIntent(c.Context(), userCtx.UserID, uint(paymentID))
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, fiber.StatusOK, paymentPayload(intent))
}

func paymentPayload(intent *models.PaymentIntent) fiber.Map {
	return fiber.Map{
		"payment_id":        intent.ID,
		"public_id":         intent.PublicID,
		"plan_id":           intent.PlanID,
		"amount":            intent.Amount,
		"currency":          intent.Currency,
		"billing_cycle":     intent.BillingCycle,
		"status":            intent.Status,
		"display_status":    intent.DisplayStatus(),
		"reference_number":  intent.ReferenceNumber,
		"submitted_at":      formatTimePtr(intent.SubmittedAt),
		"admin_verified_at": formatTimePtr(intent.AdminVerifiedAt),
		"rejection_reason":  intent.RejectionReason,
		"created_at":        intent.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func subscriptionPayload(sub *models.Subscription) fiber.Map {
	return fiber.Map{
		"id":                 sub.ID,
		"plan_id":            sub.PlanID,
		"status":             sub.Status,
		"billing_cycle":      sub.BillingCycle,
		"subscribed_at":      formatTimePtr(sub.SubscribedAt),
		"current_period_end": formatTimePtr(sub.CurrentPeriodEnd),
		"cancelled_at":       formatTimePtr(sub.CancelledAt),
		"cancel_pending":     sub.IsCancelPending(),
	}
}
