package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/internal/pkg/subscription"
	"gorm.io/gorm"
)

// Service handles the payer side of the payment lifecycle: creating intents,
// submitting reference numbers and reading back payment state.
type Service struct {
	repo    Repository
	plans   PlanSource
	channel ChannelProvider
}

// NewService creates a payment service from injected collaborators.
func NewService(repo Repository, plans PlanSource, channel ChannelProvider) *Service {
	return &Service{repo: repo, plans: plans, channel: channel}
}

// NewServiceFromDB creates a payment service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, plans PlanSource, channel ChannelProvider) *Service {
	return NewService(NewRepository(db), plans, channel)
}

// CreateIntent opens a payment intent for the given plan. First-time
// subscribers get a pending subscription row in the same transaction; an
// upgrade leaves the active row untouched until verification. The amount is
// the flat plan price, no proration.
func (s *Service) CreateIntent(ctx context.Context, userID, planID uint, billingCycle string) (*IntentReceipt, error) {
	_ = ctx
	plan, err := s.plans.GetPlan(planID)
	if err != nil {
		return nil, err
	}

	cycle := strings.ToLower(strings.TrimSpace(billingCycle))
	if cycle == "" {
		cycle = plan.BillingCycle
	}
	if cycle != plan.BillingCycle {
		return nil, ErrInvalidBillingCycle
	}

	intent := &models.PaymentIntent{
		PublicID:     uuid.NewString(),
		UserID:       userID,
		PlanID:       plan.ID,
		Amount:       plan.Price,
		Currency:     plan.Currency,
		BillingCycle: cycle,
		Status:       models.PaymentStatusPending,
	}

	err = s.repo.Transaction(func(r Repository) error {
		open, err := r.FindOpenIntentByUser(userID)
		if err != nil {
			return err
		}
		if open != nil {
			return ErrDuplicateActiveIntent
		}

		sub, err := subscription.EnsurePendingForPlan(r.Subscriptions(), userID, plan.ID, cycle)
		if err != nil {
			if errors.Is(err, subscription.ErrAlreadyHasActiveSubscription) {
				return ErrDuplicateActiveIntent
			}
			return err
		}
		if sub.Status == models.SubscriptionStatusActive && sub.PlanID == plan.ID {
			return ErrAlreadySubscribed
		}

		return r.CreateIntent(intent)
	})
	if err != nil {
		return nil, err
	}

	return &IntentReceipt{
		PaymentID:    intent.ID,
		PublicID:     intent.PublicID,
		PlanID:       plan.ID,
		PlanName:     plan.Name,
		Amount:       intent.Amount,
		Currency:     intent.Currency,
		BillingCycle: cycle,
		Channel:      s.channel.GetPaymentChannel(),
	}, nil
}

// SubmitReference records the payer's self-reported transfer reference.
// Resubmitting before the payment is reviewed overwrites the prior value, so
// a typo never needs an administrator to fix.
func (s *Service) SubmitReference(ctx context.Context, userID, paymentID uint, reference string) (*models.PaymentIntent, error) {
	_ = ctx
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return nil, ErrInvalidReference
	}

	intent, err := s.getOwnedIntent(userID, paymentID)
	if err != nil {
		return nil, err
	}
	if intent.IsResolved() {
		return nil, ErrAlreadyResolved
	}

	now := time.Now()
	rows, err := s.repo.UpdateIntentWhereStatus(intent.ID,
		[]string{models.PaymentStatusPending, models.PaymentStatusSubmitted},
		map[string]interface{}{
			"reference_number": ref,
			"status":           models.PaymentStatusSubmitted,
			"submitted_at":     now,
		})
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Resolved between our read and the write.
		return nil, ErrAlreadyResolved
	}

	intent.ReferenceNumber = ref
	intent.Status = models.PaymentStatusSubmitted
	intent.SubmittedAt = &now
	return intent, nil
}

// GetIntent returns one of the payer's own payment intents.
func (s *Service) GetIntent(ctx context.Context, userID, paymentID uint) (*models.PaymentIntent, error) {
	_ = ctx
	return s.getOwnedIntent(userID, paymentID)
}

// History returns the payer's payment intents, newest first. Rejected and
// verified intents are retained forever, so this doubles as the audit view
// payers see.
func (s *Service) History(ctx context.Context, userID uint) ([]models.PaymentIntent, error) {
	_ = ctx
	return s.repo.ListIntentsByUser(userID)
}

func (s *Service) getOwnedIntent(userID, paymentID uint) (*models.PaymentIntent, error) {
	intent, err := s.repo.GetIntentByID(paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntentNotFound
		}
		return nil, err
	}
	if intent.UserID != userID {
		return nil, ErrNotIntentOwner
	}
	return intent, nil
}
