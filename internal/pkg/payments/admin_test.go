package payments

import (
	"context"
	"testing"
	"time"

	"github.com/hanapbahay/hanapbahay/app/models"
	"github.com/hanapbahay/hanapbahay/internal/pkg/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submittedIntent(t *testing.T, repo *fakeRepo, userID, planID uint, ref string) uint {
	t.Helper()
	svc := newTestService(repo)
	receipt, err := svc.CreateIntent(context.Background(), userID, planID, "")
	require.NoError(t, err)
	_, err = svc.SubmitReference(context.Background(), userID, receipt.PaymentID, ref)
	require.NoError(t, err)
	return receipt.PaymentID
}

func TestVerifyActivatesSubscription(t *testing.T) {
	repo := newFakeRepo()
	sink := &fakeSink{}
	admin := NewAdminService(repo, sink)

	paymentID := submittedIntent(t, repo, 7, 2, "GC-1")

	before := time.Now()
	intent, err := admin.Verify(context.Background(), paymentID, 42, "matches bank statement")
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusVerified, intent.Status)
	assert.NotNil(t, intent.AdminVerifiedAt)
	require.NotNil(t, intent.SubscriptionID)

	sub, err := repo.subs.OpenByUser(7)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.EqualValues(t, 2, sub.PlanID)
	require.NotNil(t, sub.CurrentPeriodEnd)
	assert.WithinDuration(t, before.AddDate(0, 1, 0), *sub.CurrentPeriodEnd, 5*time.Second)

	// Immutable audit trail and post-commit events.
	require.Len(t, repo.audits, 1)
	assert.Equal(t, models.AuditActionVerify, repo.audits[0].Action)
	assert.EqualValues(t, 42, repo.audits[0].AdminID)
	assert.Equal(t, []uint{paymentID}, sink.verified)
	assert.Len(t, sink.activated, 1)
}

func TestVerifyIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	sink := &fakeSink{}
	admin := NewAdminService(repo, sink)

	paymentID := submittedIntent(t, repo, 7, 2, "GC-1")

	_, err := admin.Verify(context.Background(), paymentID, 42, "")
	require.NoError(t, err)

	// A retry lands on the terminal state without error, side effects or
	// duplicate events.
	intent, err := admin.Verify(context.Background(), paymentID, 42, "")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusVerified, intent.Status)
	assert.Len(t, repo.audits, 1)
	assert.Len(t, sink.verified, 1)
	assert.Len(t, sink.activated, 1)
}

func TestVerifyUnknownPayment(t *testing.T) {
	admin := NewAdminService(newFakeRepo(), nil)

	_, err := admin.Verify(context.Background(), 999, 42, "")
	assert.ErrorIs(t, err, ErrIntentNotFound)
}

func TestVerifyBeforeReferenceSubmitted(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	admin := NewAdminService(repo, nil)

	receipt, err := svc.CreateIntent(context.Background(), 7, 2, "")
	require.NoError(t, err)

	_, err = admin.Verify(context.Background(), receipt.PaymentID, 42, "")
	assert.ErrorIs(t, err, ErrNotSubmitted)
}

func TestRejectThenResolveAgain(t *testing.T) {
	repo := newFakeRepo()
	sink := &fakeSink{}
	admin := NewAdminService(repo, sink)

	paymentID := submittedIntent(t, repo, 7, 2, "GC-1")

	intent, err := admin.Reject(context.Background(), paymentID, 42, "reference not found", "checked twice")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRejected, intent.Status)
	assert.Equal(t, "reference not found", intent.RejectionReason)
	assert.Equal(t, []uint{paymentID}, sink.rejected)

	// Rejection is terminal: any later decision on the same id conflicts.
	_, err = admin.Verify(context.Background(), paymentID, 42, "")
	assert.ErrorIs(t, err, ErrStateConflict)
	_, err = admin.Reject(context.Background(), paymentID, 42, "again", "")
	assert.ErrorIs(t, err, ErrStateConflict)

	// The subscription side never moved.
	sub, err := repo.subs.OpenByUser(7)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, models.SubscriptionStatusPendingPayment, sub.Status)
}

func TestRejectRequiresReason(t *testing.T) {
	repo := newFakeRepo()
	admin := NewAdminService(repo, nil)

	paymentID := submittedIntent(t, repo, 7, 2, "GC-1")

	_, err := admin.Reject(context.Background(), paymentID, 42, "   ", "")
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestVerifyUpgradeSwapsPlan(t *testing.T) {
	repo := newFakeRepo()
	admin := NewAdminService(repo, nil)

	// First subscription on the starter plan.
	firstPayment := submittedIntent(t, repo, 7, 2, "GC-1")
	_, err := admin.Verify(context.Background(), firstPayment, 42, "")
	require.NoError(t, err)

	subBefore, err := repo.subs.OpenByUser(7)
	require.NoError(t, err)

	// Upgrade to professional.
	upgradePayment := submittedIntent(t, repo, 7, 3, "GC-2")
	before := time.Now()
	_, err = admin.Verify(context.Background(), upgradePayment, 42, "")
	require.NoError(t, err)

	subAfter, err := repo.subs.OpenByUser(7)
	require.NoError(t, err)
	assert.Equal(t, subBefore.ID, subAfter.ID, "upgrade reuses the existing row")
	assert.EqualValues(t, 3, subAfter.PlanID)
	assert.WithinDuration(t, before.AddDate(0, 1, 0), *subAfter.CurrentPeriodEnd, 5*time.Second,
		"period resets to the new cycle with no carryover")
}

func TestSecondFirstTimeVerifyFails(t *testing.T) {
	repo := newFakeRepo()
	admin := NewAdminService(repo, nil)
	now := time.Now()

	// Two submitted intents for one user, the residue of a create race.
	for i, ref := range []string{"GC-1", "GC-2"} {
		submittedAt := now.Add(time.Duration(i) * time.Minute)
		repo.nextIntentID++
		repo.intents = append(repo.intents, &models.PaymentIntent{
			ID: repo.nextIntentID, PublicID: ref, UserID: 7, PlanID: 2,
			Amount: 99900, Currency: "PHP", BillingCycle: models.BillingCycleMonthly,
			Status: models.PaymentStatusSubmitted, ReferenceNumber: ref, SubmittedAt: &submittedAt,
		})
	}

	_, err := admin.Verify(context.Background(), 1, 42, "")
	require.NoError(t, err)

	_, err = admin.Verify(context.Background(), 2, 42, "")
	assert.ErrorIs(t, err, subscription.ErrAlreadyHasActiveSubscription)
	assert.Equal(t, models.PaymentStatusSubmitted, repo.intentByID(2).Status,
		"the losing intent never reaches verified")
}

func TestListPendingOldestFirst(t *testing.T) {
	repo := newFakeRepo()
	admin := NewAdminService(repo, nil)
	now := time.Now()

	for i := 0; i < 3; i++ {
		submittedAt := now.Add(time.Duration(-i) * time.Hour) // newest first on insert
		repo.nextIntentID++
		repo.intents = append(repo.intents, &models.PaymentIntent{
			ID: repo.nextIntentID, UserID: uint(10 + i), PlanID: 2,
			Amount: 99900, Currency: "PHP", BillingCycle: models.BillingCycleMonthly,
			Status: models.PaymentStatusSubmitted, SubmittedAt: &submittedAt,
		})
	}

	rows, total, err := admin.ListPending(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	assert.True(t, rows[0].SubmittedAt.Before(rows[1].SubmittedAt), "queue is oldest-first")

	rest, _, err := admin.ListPending(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}
