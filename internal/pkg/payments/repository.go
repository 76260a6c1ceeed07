package payments

import (
	"errors"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/internal/pkg/subscription"
	"gorm.io/gorm"
)

// Repository provides DB operations used by the payment services. All
// mutations that must observe an expected prior state go through
// compare-and-set methods; Transaction scopes a group of them to one DB
// transaction.
type Repository interface {
	Transaction(fn func(Repository) error) error
	Subscriptions() subscription.Store

	CreateIntent(intent *models.PaymentIntent) error
	GetIntentByID(id uint) (*models.PaymentIntent, error)
	FindOpenIntentByUser(userID uint) (*models.PaymentIntent, error)
	ListIntentsByUser(userID uint) ([]models.PaymentIntent, error)
	UpdateIntentWhereStatus(id uint, allowed []string, updates map[string]interface{}) (int64, error)
	ListSubmittedOldestFirst(limit, offset int) ([]PendingReview, error)
	CountSubmitted() (int64, error)
	CreateAuditLog(entry *models.PaymentAuditLog) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a payments repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(fn func(Repository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) Subscriptions() subscription.Store {
	return subscription.NewStore(r.db)
}

func (r *gormRepository) CreateIntent(intent *models.PaymentIntent) error {
	return r.db.Create(intent).Error
}

func (r *gormRepository) GetIntentByID(id uint) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.Preload("Plan").First(&intent, id).Error
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *gormRepository) FindOpenIntentByUser(userID uint) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	err := r.db.
		Where("user_id = ? AND status IN ?", userID,
			[]string{models.PaymentStatusPending, models.PaymentStatusSubmitted}).
		Order("id DESC").
		First(&intent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &intent, nil
}

func (r *gormRepository) ListIntentsByUser(userID uint) ([]models.PaymentIntent, error) {
	var intents []models.PaymentIntent
	err := r.db.Preload("Plan").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&intents).Error
	return intents, err
}

func (r *gormRepository) UpdateIntentWhereStatus(id uint, allowed []string, updates map[string]interface{}) (int64, error) {
	res := r.db.Model(&models.PaymentIntent{}).
		Where("id = ? AND status IN ?", id, allowed).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *gormRepository) ListSubmittedOldestFirst(limit, offset int) ([]PendingReview, error) {
	var rows []PendingReview
	err := r.db.Model(&models.PaymentIntent{}).
		Select(`payment_intents.id AS payment_id,
			payment_intents.reference_number,
			payment_intents.amount,
			payment_intents.currency,
			payment_intents.billing_cycle,
			payment_intents.submitted_at,
			users.id AS user_id,
			users.name AS user_name,
			users.email AS user_email,
			plans.id AS plan_id,
			plans.name AS plan_name`).
		Joins("JOIN users ON users.id = payment_intents.user_id").
		Joins("JOIN plans ON plans.id = payment_intents.plan_id").
		Where("payment_intents.status = ?", models.PaymentStatusSubmitted).
		Order("payment_intents.submitted_at ASC").
		Limit(limit).
		Offset(offset).
		Scan(&rows).Error
	return rows, err
}

func (r *gormRepository) CountSubmitted() (int64, error) {
	var count int64
	err := r.db.Model(&models.PaymentIntent{}).
		Where("status = ?", models.PaymentStatusSubmitted).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) CreateAuditLog(entry *models.PaymentAuditLog) error {
	return r.db.Create(entry).Error
}
