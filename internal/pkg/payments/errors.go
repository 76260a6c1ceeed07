package payments

import "errors"

var (
	// ErrDuplicateActiveIntent is returned when a first-time subscribe
	// collides with an open intent or an open subscription.
	ErrDuplicateActiveIntent = errors.New("an open payment already exists for this account")
	// ErrAlreadySubscribed is returned when a user tries to buy the plan
	// they are already active on.
	ErrAlreadySubscribed = errors.New("already subscribed to this plan")
	// ErrIntentNotFound is returned for unknown payment ids.
	ErrIntentNotFound = errors.New("payment not found")
	// ErrNotIntentOwner is returned when a payer acts on someone else's payment.
	ErrNotIntentOwner = errors.New("payment belongs to another account")
	// ErrInvalidReference is returned for an empty reference number.
	ErrInvalidReference = errors.New("reference number must not be empty")
	// ErrInvalidBillingCycle is returned when the requested cycle does not
	// match the plan's billing cycle.
	ErrInvalidBillingCycle = errors.New("billing cycle does not match the plan")
	// ErrAlreadyResolved is returned when the payer acts on a payment an
	// administrator has already verified or rejected.
	ErrAlreadyResolved = errors.New("payment already reviewed")
	// ErrNotSubmitted is returned when an admin reviews a payment whose
	// reference has not been submitted yet.
	ErrNotSubmitted = errors.New("no reference submitted yet")
	// ErrReasonRequired is returned when a rejection carries no reason.
	ErrReasonRequired = errors.New("rejection reason is required")
	// ErrStateConflict is returned when a decision lost the compare-and-set
	// to another administrator.
	ErrStateConflict = errors.New("payment already resolved by another review")
)
