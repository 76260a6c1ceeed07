package payments

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/internal/pkg/subscription"
	"gorm.io/gorm"
)

const (
	defaultReviewPageSize = 20
	maxReviewPageSize     = 100
)

// AdminService handles the administrator side: reviewing submitted payments
// and resolving them. Ordering on a single payment id is serialized via
// compare-and-set on its status; the first resolver wins, the loser gets
// ErrStateConflict instead of a silent overwrite.
type AdminService struct {
	repo Repository
	sink EventSink
}

// NewAdminService creates an admin review service. sink may be nil.
func NewAdminService(repo Repository, sink EventSink) *AdminService {
	return &AdminService{repo: repo, sink: sink}
}

// NewAdminServiceFromDB creates an admin review service from a GORM DB handle.
func NewAdminServiceFromDB(db *gorm.DB, sink EventSink) *AdminService {
	return NewAdminService(NewRepository(db), sink)
}

// ListPending returns submitted payments oldest-first with requester and plan
// display data, plus the total queue depth. The ordering is presentation
// fairness only; administrators may resolve out of sequence.
func (s *AdminService) ListPending(ctx context.Context, limit, offset int) ([]PendingReview, int64, error) {
	_ = ctx
	if limit <= 0 {
		limit = defaultReviewPageSize
	}
	if limit > maxReviewPageSize {
		limit = maxReviewPageSize
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.repo.ListSubmittedOldestFirst(limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountSubmitted()
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Verify marks a submitted payment as verified and activates the paid
// subscription in the same transaction. Re-invoking on an already verified
// payment is a no-op success so admin retries stay harmless.
func (s *AdminService) Verify(ctx context.Context, paymentID, adminID uint, adminNotes string) (*models.PaymentIntent, error) {
	_ = ctx
	now := time.Now()

	var resolved *models.PaymentIntent
	var activated *models.Subscription
	var noop bool

	err := s.repo.Transaction(func(r Repository) error {
		intent, err := r.GetIntentByID(paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIntentNotFound
			}
			return err
		}

		switch intent.Status {
		case models.PaymentStatusVerified:
			noop = true
			resolved = intent
			return nil
		case models.PaymentStatusRejected:
			return ErrStateConflict
		case models.PaymentStatusPending:
			return ErrNotSubmitted
		}

		sub, err := subscription.ActivateFromIntent(r.Subscriptions(), intent, now)
		if err != nil {
			if errors.Is(err, subscription.ErrStateChanged) {
				return ErrStateConflict
			}
			return err
		}

		rows, err := r.UpdateIntentWhereStatus(intent.ID,
			[]string{models.PaymentStatusSubmitted},
			map[string]interface{}{
				"status":            models.PaymentStatusVerified,
				"admin_verified_at": now,
				"admin_notes":       strings.TrimSpace(adminNotes),
				"subscription_id":   sub.ID,
			})
		if err != nil {
			return err
		}
		if rows == 0 {
			// Another admin resolved it between our read and write; the
			// rollback also undoes the activation above.
			return ErrStateConflict
		}

		if err := r.CreateAuditLog(&models.PaymentAuditLog{
			PaymentIntentID: intent.ID,
			AdminID:         adminID,
			Action:          models.AuditActionVerify,
			Notes:           strings.TrimSpace(adminNotes),
		}); err != nil {
			return err
		}

		intent.Status = models.PaymentStatusVerified
		intent.AdminVerifiedAt = &now
		intent.AdminNotes = strings.TrimSpace(adminNotes)
		intent.SubscriptionID = &sub.ID
		resolved = intent
		activated = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !noop && s.sink != nil {
		s.sink.PaymentVerified(resolved)
		s.sink.SubscriptionActivated(activated, resolved)
	}
	return resolved, nil
}

// Reject marks a submitted payment as rejected. The intent is retained
// forever; the user's subscription state is untouched and a fresh intent is
// required to retry.
func (s *AdminService) Reject(ctx context.Context, paymentID, adminID uint, reason, adminNotes string) (*models.PaymentIntent, error) {
	_ = ctx
	trimmedReason := strings.TrimSpace(reason)
	if trimmedReason == "" {
		return nil, ErrReasonRequired
	}

	var resolved *models.PaymentIntent

	err := s.repo.Transaction(func(r Repository) error {
		intent, err := r.GetIntentByID(paymentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrIntentNotFound
			}
			return err
		}

		switch intent.Status {
		case models.PaymentStatusVerified, models.PaymentStatusRejected:
			return ErrStateConflict
		case models.PaymentStatusPending:
			return ErrNotSubmitted
		}

		rows, err := r.UpdateIntentWhereStatus(intent.ID,
			[]string{models.PaymentStatusSubmitted},
			map[string]interface{}{
				"status":           models.PaymentStatusRejected,
				"rejection_reason": trimmedReason,
				"admin_notes":      strings.TrimSpace(adminNotes),
			})
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrStateConflict
		}

		if err := r.CreateAuditLog(&models.PaymentAuditLog{
			PaymentIntentID: intent.ID,
			AdminID:         adminID,
			Action:          models.AuditActionReject,
			Notes:           trimmedReason,
		}); err != nil {
			return err
		}

		intent.Status = models.PaymentStatusRejected
		intent.RejectionReason = trimmedReason
		intent.AdminNotes = strings.TrimSpace(adminNotes)
		resolved = intent
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.sink != nil {
		s.sink.PaymentRejected(resolved)
	}
	return resolved, nil
}
