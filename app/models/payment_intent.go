package models

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusSubmitted = "submitted"
	PaymentStatusVerified  = "verified"
	PaymentStatusRejected  = "rejected"
)

// PaymentIntent records a seller's declared intention to pay for a plan via
// QR transfer. The payer mutates it (submit/resubmit reference) and an
// administrator resolves it (verify/reject). Verified and rejected are
// terminal; rows are never deleted so the reconciliation trail stays intact.
type PaymentIntent struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	PublicID        string     `gorm:"type:varchar(36);not null;uniqueIndex" json:"public_id"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	User            User       `gorm:"foreignKey:UserID" json:"-"`
	SubscriptionID  *uint      `gorm:"index" json:"subscription_id,omitempty"` // set on activation
	PlanID          uint       `gorm:"not null;index" json:"plan_id"`
	Plan            Plan       `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Amount          int64      `gorm:"not null" json:"amount"` // centavos
	Currency        string     `gorm:"type:varchar(3);not null;default:'PHP'" json:"currency"`
	BillingCycle    string     `gorm:"type:varchar(16);not null;default:'monthly'" json:"billing_cycle"`
	Status          string     `gorm:"type:varchar(16);not null;default:'pending';index:idx_payment_intents_status_submitted,priority:1" json:"status"`
	ReferenceNumber string     `gorm:"type:varchar(100);default:''" json:"reference_number"`
	SubmittedAt     *time.Time `gorm:"type:timestamp;default:null;index:idx_payment_intents_status_submitted,priority:2" json:"submitted_at,omitempty"`
	AdminVerifiedAt *time.Time `gorm:"type:timestamp;default:null" json:"admin_verified_at,omitempty"`
	AdminNotes      string     `gorm:"type:text" json:"admin_notes"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsResolved reports whether the intent reached a terminal state.
func (p *PaymentIntent) IsResolved() bool {
	return p.Status == PaymentStatusVerified || p.Status == PaymentStatusRejected
}

// IsOpen reports whether the payer can still act on the intent.
func (p *PaymentIntent) IsOpen() bool {
	return p.Status == PaymentStatusPending || p.Status == PaymentStatusSubmitted
}

// DisplayStatus is the plain-language state shown to payers.
func (p *PaymentIntent) DisplayStatus() string {
	switch p.Status {
	case PaymentStatusPending:
		return "Awaiting Payment"
	case PaymentStatusSubmitted:
		return "Under Review"
	case PaymentStatusVerified:
		return "Verified"
	case PaymentStatusRejected:
		return "Rejected"
	default:
		return p.Status
	}
}
