package payments

import (
	"sync"
	"time"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/internal/pkg/plancatalog"
	"github.com/hanapbahay/hanapbahay/internal/pkg/subscription"
	"gorm.io/gorm"
)

// fakeSubStore mirrors the conditional-write semantics of the GORM
// subscription store on in-memory rows.
type fakeSubStore struct {
	nextID uint
	rows   []*models.Subscription
}

func (f *fakeSubStore) OpenByUser(userID uint) (*models.Subscription, error) {
	for i := len(f.rows) - 1; i >= 0; i-- {
		r := f.rows[i]
		if r.UserID == userID &&
			(r.Status == models.SubscriptionStatusPendingPayment || r.Status == models.SubscriptionStatusActive) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSubStore) CreateIfNoneOpen(sub *models.Subscription) (bool, error) {
	if existing, _ := f.OpenByUser(sub.UserID); existing != nil {
		return false, nil
	}
	f.nextID++
	sub.ID = f.nextID
	cp := *sub
	f.rows = append(f.rows, &cp)
	return true, nil
}

func (f *fakeSubStore) UpdateWhereStatus(id uint, expectStatus string, updates map[string]interface{}) (int64, error) {
	for _, r := range f.rows {
		if r.ID != id || r.Status != expectStatus {
			continue
		}
		for k, v := range updates {
			switch k {
			case "status":
				r.Status = v.(string)
			case "plan_id":
				r.PlanID = v.(uint)
			case "billing_cycle":
				r.BillingCycle = v.(string)
			case "subscribed_at":
				t := v.(time.Time)
				r.SubscribedAt = &t
			case "current_period_end":
				t := v.(time.Time)
				r.CurrentPeriodEnd = &t
			case "cancelled_at":
				if v == nil {
					r.CancelledAt = nil
				} else {
					t := v.(time.Time)
					r.CancelledAt = &t
				}
			}
		}
		return 1, nil
	}
	return 0, nil
}

func (f *fakeSubStore) MarkCancelled(id uint, at time.Time) (int64, error) {
	for _, r := range f.rows {
		if r.ID == id && r.Status == models.SubscriptionStatusActive && r.CancelledAt == nil {
			t := at
			r.CancelledAt = &t
			return 1, nil
		}
	}
	return 0, nil
}

// fakeRepo implements Repository on in-memory state. Transaction serializes
// callers; rollback is not modeled, which the tests here never rely on.
type fakeRepo struct {
	mu           sync.Mutex
	nextIntentID uint
	intents      []*models.PaymentIntent
	subs         *fakeSubStore
	audits       []*models.PaymentAuditLog
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{subs: &fakeSubStore{}}
}

func (f *fakeRepo) Transaction(fn func(Repository) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(f)
}

func (f *fakeRepo) Subscriptions() subscription.Store {
	return f.subs
}

func (f *fakeRepo) CreateIntent(intent *models.PaymentIntent) error {
	f.nextIntentID++
	intent.ID = f.nextIntentID
	cp := *intent
	f.intents = append(f.intents, &cp)
	return nil
}

func (f *fakeRepo) GetIntentByID(id uint) (*models.PaymentIntent, error) {
	for _, in := range f.intents {
		if in.ID == id {
			cp := *in
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindOpenIntentByUser(userID uint) (*models.PaymentIntent, error) {
	for i := len(f.intents) - 1; i >= 0; i-- {
		in := f.intents[i]
		if in.UserID == userID && in.IsOpen() {
			cp := *in
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListIntentsByUser(userID uint) ([]models.PaymentIntent, error) {
	var out []models.PaymentIntent
	for i := len(f.intents) - 1; i >= 0; i-- {
		if f.intents[i].UserID == userID {
			out = append(out, *f.intents[i])
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateIntentWhereStatus(id uint, allowed []string, updates map[string]interface{}) (int64, error) {
	for _, in := range f.intents {
		if in.ID != id {
			continue
		}
		ok := false
		for _, st := range allowed {
			if in.Status == st {
				ok = true
				break
			}
		}
		if !ok {
			return 0, nil
		}
		for k, v := range updates {
			switch k {
			case "status":
				in.Status = v.(string)
			case "reference_number":
				in.ReferenceNumber = v.(string)
			case "submitted_at":
				t := v.(time.Time)
				in.SubmittedAt = &t
			case "admin_verified_at":
				t := v.(time.Time)
				in.AdminVerifiedAt = &t
			case "admin_notes":
				in.AdminNotes = v.(string)
			case "rejection_reason":
				in.RejectionReason = v.(string)
			case "subscription_id":
				sid := v.(uint)
				in.SubscriptionID = &sid
			}
		}
		return 1, nil
	}
	return 0, nil
}

func (f *fakeRepo) ListSubmittedOldestFirst(limit, offset int) ([]PendingReview, error) {
	var submitted []*models.PaymentIntent
	for _, in := range f.intents {
		if in.Status == models.PaymentStatusSubmitted {
			submitted = append(submitted, in)
		}
	}
	// submitted_at ascending
	for i := 0; i < len(submitted); i++ {
		for j := i + 1; j < len(submitted); j++ {
			if submitted[j].SubmittedAt.Before(*submitted[i].SubmittedAt) {
				submitted[i], submitted[j] = submitted[j], submitted[i]
			}
		}
	}
	var rows []PendingReview
	for i := offset; i < len(submitted) && len(rows) < limit; i++ {
		in := submitted[i]
		rows = append(rows, PendingReview{
			PaymentID:       in.ID,
			ReferenceNumber: in.ReferenceNumber,
			Amount:          in.Amount,
			Currency:        in.Currency,
			BillingCycle:    in.BillingCycle,
			SubmittedAt:     *in.SubmittedAt,
			UserID:          in.UserID,
			PlanID:          in.PlanID,
		})
	}
	return rows, nil
}

func (f *fakeRepo) CountSubmitted() (int64, error) {
	var count int64
	for _, in := range f.intents {
		if in.Status == models.PaymentStatusSubmitted {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) CreateAuditLog(entry *models.PaymentAuditLog) error {
	cp := *entry
	cp.ID = uint(len(f.audits) + 1)
	f.audits = append(f.audits, &cp)
	return nil
}

func (f *fakeRepo) intentByID(id uint) *models.PaymentIntent {
	for _, in := range f.intents {
		if in.ID == id {
			return in
		}
	}
	return nil
}

// fakePlans resolves plans from a fixed map.
type fakePlans struct {
	plans map[uint]*models.Plan
}

func (f *fakePlans) GetPlan(id uint) (*models.Plan, error) {
	if p, ok := f.plans[id]; ok {
		return p, nil
	}
	return nil, plancatalog.ErrPlanNotFound
}

// fakeChannel returns fixed payment instructions.
type fakeChannel struct{}

func (fakeChannel) GetPaymentChannel() models.PaymentChannel {
	return models.PaymentChannel{
		ChannelName:  "GCash",
		QRCodeURL:    "https://cdn.example.com/qr/gcash.png",
		Instructions: "Scan and send the exact amount, keep the reference number.",
	}
}

// fakeSink records delivered events.
type fakeSink struct {
	verified  []uint
	rejected  []uint
	activated []uint
}

func (f *fakeSink) PaymentVerified(intent *models.PaymentIntent) {
	f.verified = append(f.verified, intent.ID)
}

func (f *fakeSink) PaymentRejected(intent *models.PaymentIntent) {
	f.rejected = append(f.rejected, intent.ID)
}

func (f *fakeSink) SubscriptionActivated(sub *models.Subscription, intent *models.PaymentIntent) {
	f.activated = append(f.activated, sub.ID)
}

func testCatalogPlans() map[uint]*models.Plan {
	return map[uint]*models.Plan{
		2: {ID: 2, Slug: "starter", Name: "Starter", Price: 99900, Currency: "PHP",
			BillingCycle: models.BillingCycleMonthly, MaxListings: 5, MaxPhotosPerListing: 10, MaxFeaturedListings: 1, IsActive: true},
		3: {ID: 3, Slug: "professional", Name: "Professional", Price: 199900, Currency: "PHP",
			BillingCycle: models.BillingCycleMonthly, MaxListings: 20, MaxPhotosPerListing: 20, MaxFeaturedListings: 5, IsActive: true},
	}
}
