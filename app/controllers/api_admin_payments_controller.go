package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hanapbahay/hanapbahay/internal/pkg/statistics"
	"github.com/hanapbahay/hanapbahay/internal/pkg/usercontext"
)

type resolvePaymentRequest struct {
	PaymentID       uint   `json:"payment_id"`
	Action          string `json:"action"`
	AdminNotes      string `json:"admin_notes"`
	RejectionReason string `json:"rejection_reason"`
}

// HandleAdminListPendingPayments returns the review queue: submitted payments
// oldest-first with requester and plan display data.
func HandleAdminListPendingPayments(c *fiber.Ctx) error {
	initServices()

	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	rows, total, err := adminService.ListPending(c.Context(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return respondData(c, fiber.StatusOK, fiber.Map{
		"payments": rows,
		"total":    total,
	})
}

// HandleAdminResolvePayment verifies or rejects a submitted payment. Verify
// activates the paid subscription in the same transaction.
func HandleAdminResolvePayment(c *fiber.Ctx) error {
	initServices()
	adminCtx := usercontext.GetUserContext(c)

	var req resolvePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fiber.StatusBadRequest, "invalid_request", "Malformed request body")
	}
	if req.PaymentID == 0 {
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_request", "payment_id is required")
	}

	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case "verify":
		intent, err := adminService.Verify(c.Context(), req.PaymentID, adminCtx.UserID, req.AdminNotes)
		if err != nil {
			return respondServiceError(c, err)
		}
		statistics.Invalidate(intent.UserID)
		return respondData(c, fiber.StatusOK, paymentPayload(intent))
	case "reject":
		intent, err := adminService.Reject(c.Context(), req.PaymentID, adminCtx.UserID, req.RejectionReason, req.AdminNotes)
		if err != nil {
			return respondServiceError(c, err)
		}
		return respondData(c, fiber.StatusOK, paymentPayload(intent))
	default:
		return respondError(c, fiber.StatusUnprocessableEntity, "invalid_request", "action must be verify or reject")
	}
}
