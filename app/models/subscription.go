package models

import "time"

const (
	SubscriptionStatusPendingPayment = "pending_payment"
	SubscriptionStatusActive         = "active"
	SubscriptionStatusCancelled      = "cancelled"
	SubscriptionStatusExpired        = "expired"
)

// Subscription links a seller account to a plan. At most one row per user may
// be in pending_payment or active at any time; the conditional insert in the
// subscription repository enforces this at the storage boundary.
//
// Cancellation is soft: status stays active with cancelled_at set until
// current_period_end passes. An external sweep flips expired rows later.
type Subscription struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;index" json:"user_id"`
	User             User       `gorm:"foreignKey:UserID" json:"-"`
	PlanID           uint       `gorm:"not null;index" json:"plan_id"`
	Plan             Plan       `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Status           string     `gorm:"type:varchar(32);not null;default:'pending_payment';index" json:"status"`
	BillingCycle     string     `gorm:"type:varchar(16);not null;default:'monthly'" json:"billing_cycle"`
	SubscribedAt     *time.Time `gorm:"type:timestamp;default:null" json:"subscribed_at,omitempty"`
	CurrentPeriodEnd *time.Time `gorm:"type:timestamp;default:null" json:"current_period_end,omitempty"`
	CancelledAt      *time.Time `gorm:"type:timestamp;default:null" json:"cancelled_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsActive reports whether the subscription currently entitles the user.
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// IsCancelPending reports whether the subscription is marked for non-renewal
// but still usable until the period ends.
func (s *Subscription) IsCancelPending() bool {
	return s.Status == SubscriptionStatusActive && s.CancelledAt != nil
}

// IsWithinPeriod reports whether now falls before the paid period end.
func (s *Subscription) IsWithinPeriod(now time.Time) bool {
	return s.CurrentPeriodEnd != nil && now.Before(*s.CurrentPeriodEnd)
}
