package subscription

import (
	"errors"
	"time"

	"github.com/hanapbahay/hanapbahay/app/models"
	"gorm.io/gorm"
)

// Store provides the conditional writes the state machine is built on. Every
// mutation is a compare-and-set against the row's current status, so a single
// payment id has exactly one winning writer.
type Store interface {
	// OpenByUser returns the user's pending_payment or active subscription,
	// or nil when the user has none.
	OpenByUser(userID uint) (*models.Subscription, error)
	// CreateIfNoneOpen inserts the subscription only when the user has no
	// open row. Returns false when the insert lost to an existing row.
	CreateIfNoneOpen(sub *models.Subscription) (bool, error)
	// UpdateWhereStatus applies updates only while the row still holds the
	// expected status. Returns the number of rows changed.
	UpdateWhereStatus(id uint, expectStatus string, updates map[string]interface{}) (int64, error)
	// MarkCancelled sets cancelled_at only on an active, not-yet-cancelled row.
	MarkCancelled(id uint, at time.Time) (int64, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a subscription store backed by GORM.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) OpenByUser(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Preload("Plan").
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.SubscriptionStatusPendingPayment, models.SubscriptionStatusActive}).
		Order("id DESC").
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *gormStore) CreateIfNoneOpen(sub *models.Subscription) (bool, error) {
	// Conditional insert at the storage boundary. MySQL takes the gap lock on
	// the NOT EXISTS subquery under the surrounding transaction, so two
	// concurrent first-time subscribes cannot both insert.
	now := time.Now()
	res := s.db.Exec(
		`INSERT INTO subscriptions
		   (user_id, plan_id, status, billing_cycle, subscribed_at, current_period_end, created_at, updated_at)
		 SELECT ?, ?, ?, ?, ?, ?, ?, ?
		 FROM DUAL
		 WHERE NOT EXISTS (
		   SELECT 1 FROM subscriptions WHERE user_id = ? AND status IN (?, ?)
		 )`,
		sub.UserID, sub.PlanID, sub.Status, sub.BillingCycle,
		sub.SubscribedAt, sub.CurrentPeriodEnd, now, now,
		sub.UserID, models.SubscriptionStatusPendingPayment, models.SubscriptionStatusActive,
	)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	// Populate the generated id for callers that link the row.
	var created models.Subscription
	err := s.db.Where("user_id = ? AND status = ?", sub.UserID, sub.Status).
		Order("id DESC").
		First(&created).Error
	if err != nil {
		return true, err
	}
	sub.ID = created.ID
	sub.CreatedAt = created.CreatedAt
	return true, nil
}

func (s *gormStore) UpdateWhereStatus(id uint, expectStatus string, updates map[string]interface{}) (int64, error) {
	res := s.db.Model(&models.Subscription{}).
		Where("id = ? AND status = ?", id, expectStatus).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (s *gormStore) MarkCancelled(id uint, at time.Time) (int64, error) {
	res := s.db.Model(&models.Subscription{}).
		Where("id = ? AND status = ? AND cancelled_at IS NULL", id, models.SubscriptionStatusActive).
		Update("cancelled_at", at)
	return res.RowsAffected, res.Error
}
