package subscription

import (
	"errors"
	"time"

	"github.com/hanapbahay/hanapbahay/app/models"
)

var (
	// ErrNotActive is returned when an operation requires an active,
	// not-yet-cancelled subscription.
	ErrNotActive = errors.New("subscription is not active")
	// ErrAlreadyHasActiveSubscription is returned when a first-time
	// activation collides with a subscription that is already open.
	ErrAlreadyHasActiveSubscription = errors.New("user already has an active subscription")
	// ErrStateChanged is returned when a compare-and-set lost to a
	// concurrent writer.
	ErrStateChanged = errors.New("subscription state changed concurrently")
)

// EnsurePendingForPlan prepares the subscription side of a new payment
// intent. A first-time subscriber gets a pending_payment row; a user with an
// abandoned pending row gets that row repointed at the requested plan; a user
// with an active subscription keeps it untouched until verification (upgrade
// path, no second row).
func EnsurePendingForPlan(s Store, userID, planID uint, billingCycle string) (*models.Subscription, error) {
	sub, err := s.OpenByUser(userID)
	if err != nil {
		return nil, err
	}

	if sub == nil {
		ns := &models.Subscription{
			UserID:       userID,
			PlanID:       planID,
			Status:       models.SubscriptionStatusPendingPayment,
			BillingCycle: billingCycle,
		}
		created, err := s.CreateIfNoneOpen(ns)
		if err != nil {
			return nil, err
		}
		if !created {
			return nil, ErrAlreadyHasActiveSubscription
		}
		return ns, nil
	}

	if sub.Status == models.SubscriptionStatusPendingPayment {
		if sub.PlanID != planID || sub.BillingCycle != billingCycle {
			if _, err := s.UpdateWhereStatus(sub.ID, models.SubscriptionStatusPendingPayment, map[string]interface{}{
				"plan_id":       planID,
				"billing_cycle": billingCycle,
			}); err != nil {
				return nil, err
			}
			sub.PlanID = planID
			sub.BillingCycle = billingCycle
		}
		return sub, nil
	}

	// Active subscription: the existing row stays as-is until the upgrade
	// payment verifies.
	return sub, nil
}

// ActivateFromIntent applies a verified payment to the subscription. A
// pending_payment row flips to active with a fresh period; an upgrade swaps
// the plan in place on the active row and resets the period with no credit
// carried over from the prior cycle.
func ActivateFromIntent(s Store, intent *models.PaymentIntent, now time.Time) (*models.Subscription, error) {
	periodEnd := nextPeriodEnd(now, intent.BillingCycle)

	sub, err := s.OpenByUser(intent.UserID)
	if err != nil {
		return nil, err
	}

	switch {
	case sub == nil:
		// The pending row can be missing when the intent predates it; a
		// verified payment still has to activate exactly once.
		ns := &models.Subscription{
			UserID:           intent.UserID,
			PlanID:           intent.PlanID,
			Status:           models.SubscriptionStatusActive,
			BillingCycle:     intent.BillingCycle,
			SubscribedAt:     &now,
			CurrentPeriodEnd: &periodEnd,
		}
		created, err := s.CreateIfNoneOpen(ns)
		if err != nil {
			return nil, err
		}
		if !created {
			return nil, ErrAlreadyHasActiveSubscription
		}
		return ns, nil

	case sub.Status == models.SubscriptionStatusPendingPayment:
		rows, err := s.UpdateWhereStatus(sub.ID, models.SubscriptionStatusPendingPayment, map[string]interface{}{
			"status":             models.SubscriptionStatusActive,
			"plan_id":            intent.PlanID,
			"billing_cycle":      intent.BillingCycle,
			"subscribed_at":      now,
			"current_period_end": periodEnd,
			"cancelled_at":       nil,
		})
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			// A concurrent verify won; this user is already activated.
			return nil, ErrAlreadyHasActiveSubscription
		}
		sub.Status = models.SubscriptionStatusActive
		sub.PlanID = intent.PlanID
		sub.BillingCycle = intent.BillingCycle
		sub.SubscribedAt = &now
		sub.CurrentPeriodEnd = &periodEnd
		sub.CancelledAt = nil
		return sub, nil

	case sub.PlanID == intent.PlanID:
		// Active on the same plan: a duplicate first-time payment slipped
		// through before activation. Only one intent may ever verify.
		return nil, ErrAlreadyHasActiveSubscription

	default:
		// Upgrade: swap the plan in place, reset the period.
		rows, err := s.UpdateWhereStatus(sub.ID, models.SubscriptionStatusActive, map[string]interface{}{
			"plan_id":            intent.PlanID,
			"billing_cycle":      intent.BillingCycle,
			"current_period_end": periodEnd,
			"cancelled_at":       nil,
		})
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			return nil, ErrStateChanged
		}
		sub.PlanID = intent.PlanID
		sub.BillingCycle = intent.BillingCycle
		sub.CurrentPeriodEnd = &periodEnd
		sub.CancelledAt = nil
		return sub, nil
	}
}

// Cancel soft-cancels the user's active subscription: cancelled_at is set,
// the status stays active and the plan remains usable until period end.
func Cancel(s Store, userID uint, now time.Time) (*models.Subscription, error) {
	sub, err := s.OpenByUser(userID)
	if err != nil {
		return nil, err
	}
	if sub == nil || sub.Status != models.SubscriptionStatusActive || sub.CancelledAt != nil {
		return nil, ErrNotActive
	}

	rows, err := s.MarkCancelled(sub.ID, now)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotActive
	}
	sub.CancelledAt = &now
	return sub, nil
}

func nextPeriodEnd(from time.Time, billingCycle string) time.Time {
	if billingCycle == models.BillingCycleYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
