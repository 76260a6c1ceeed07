package payments

import (
	"time"

	"github.com/hanapbahay/hanapbahay/app/models"
)

// IntentReceipt is what the payer gets back after creating a payment intent:
// the payment id plus everything needed to actually send the money.
type IntentReceipt struct {
	PaymentID    uint                  `json:"payment_id"`
	PublicID     string                `json:"public_id"`
	PlanID       uint                  `json:"plan_id"`
	PlanName     string                `json:"plan_name"`
	Amount       int64                 `json:"amount"`
	Currency     string                `json:"currency"`
	BillingCycle string                `json:"billing_cycle"`
	Channel      models.PaymentChannel `json:"channel"`
}

// PendingReview is one row of the admin review queue: the submitted intent
// joined with requester and plan display data.
type PendingReview struct {
	PaymentID       uint      `json:"payment_id"`
	ReferenceNumber string    `json:"reference_number"`
	Amount          int64     `json:"amount"`
	Currency        string    `json:"currency"`
	BillingCycle    string    `json:"billing_cycle"`
	SubmittedAt     time.Time `json:"submitted_at"`
	UserID          uint      `json:"user_id"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	PlanID          uint      `json:"plan_id"`
	PlanName        string    `json:"plan_name"`
}

// PlanSource resolves plan ids to plan definitions; *plancatalog.Catalog
// satisfies it.
type PlanSource interface {
	GetPlan(id uint) (*models.Plan, error)
}

// ChannelProvider supplies the payment-channel instructions shown to payers;
// the settings repository satisfies it.
type ChannelProvider interface {
	GetPaymentChannel() models.PaymentChannel
}

// EventSink receives lifecycle events after a state transition commits.
// Delivery failures are the sink's problem; they never roll back the
// transition that produced them.
type EventSink interface {
	PaymentVerified(intent *models.PaymentIntent)
	PaymentRejected(intent *models.PaymentIntent)
	SubscriptionActivated(sub *models.Subscription, intent *models.PaymentIntent)
}
