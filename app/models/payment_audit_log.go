package models

import "time"

const (
	AuditActionVerify = "verify"
	AuditActionReject = "reject"
)

// PaymentAuditLog is an append-only record of admin decisions on payment
// intents. Rows are written inside the same transaction as the decision and
// never updated or deleted.
type PaymentAuditLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PaymentIntentID uint      `gorm:"not null;index" json:"payment_intent_id"`
	AdminID         uint      `gorm:"not null;index" json:"admin_id"`
	Admin           User      `gorm:"foreignKey:AdminID" json:"-"`
	Action          string    `gorm:"type:varchar(16);not null" json:"action"`
	Notes           string    `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
