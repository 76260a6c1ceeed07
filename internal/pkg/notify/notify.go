package notify

import (
	"fmt"
	"log"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/internal/pkg/mail"
	"gorm.io/gorm"
)

// Notifier delivers payment lifecycle events to users as in-app notifications
// plus a best-effort email. Delivery failures are logged and swallowed; the
// transition that produced the event has already committed.
type Notifier struct {
	db *gorm.DB
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

// PaymentVerified tells the payer their payment went through.
func (n *Notifier) PaymentVerified(intent *models.PaymentIntent) {
	content := fmt.Sprintf("Your payment of %s has been verified. Reference: %s",
		formatAmount(intent.Amount, intent.Currency), intent.ReferenceNumber)
	n.deliver(intent.UserID, models.NotificationPaymentVerified, content, intent.ID,
		"Payment verified",
		fmt.Sprintf("<p>Good news! Your payment of <strong>%s</strong> has been verified.</p><p>Reference number: %s</p>",
			formatAmount(intent.Amount, intent.Currency), intent.ReferenceNumber))
}

// PaymentRejected tells the payer why their payment was turned down.
func (n *Notifier) PaymentRejected(intent *models.PaymentIntent) {
	content := fmt.Sprintf("Your payment could not be verified: %s", intent.RejectionReason)
	n.deliver(intent.UserID, models.NotificationPaymentRejected, content, intent.ID,
		"Payment rejected",
		fmt.Sprintf("<p>Unfortunately we could not verify your payment.</p><p>Reason: %s</p><p>You can start a new payment from your subscription page.</p>",
			intent.RejectionReason))
}

// SubscriptionActivated tells the payer their subscription is live.
func (n *Notifier) SubscriptionActivated(sub *models.Subscription, intent *models.PaymentIntent) {
	content := "Your subscription is now active."
	if sub.CurrentPeriodEnd != nil {
		content = fmt.Sprintf("Your subscription is now active until %s.",
			sub.CurrentPeriodEnd.Format("January 2, 2006"))
	}
	n.deliver(sub.UserID, models.NotificationSubscriptionActivated, content, sub.ID,
		"Subscription activated",
		fmt.Sprintf("<p>%s</p><p>Thank you for subscribing!</p>", content))
}

func (n *Notifier) deliver(userID uint, notificationType, content string, referenceID uint, subject, htmlBody string) {
	if err := models.CreateNotification(n.db, userID, notificationType, content, referenceID); err != nil {
		log.Printf("Failed to create notification for user %d: %v", userID, err)
	}

	var user models.User
	if err := n.db.First(&user, userID).Error; err != nil {
		log.Printf("Failed to load user %d for email notification: %v", userID, err)
		return
	}
	go func() {
		_ = mail.SendMail(user.Email, subject, htmlBody)
	}()
}

func formatAmount(centavos int64, currency string) string {
	symbol := currency
	if currency == "PHP" {
		symbol = "₱"
	}
	return fmt.Sprintf("%s%.2f", symbol, float64(centavos)/100)
}
