package entitlement

import "errors"

var (
	// ErrSubscriptionRequired means no active entitlement covers the
	// requested service key. Recoverable by purchasing a subscription.
	ErrSubscriptionRequired = errors.New("no active subscription for this service")

	// ErrInsufficientCredit means the matching per-use subscription is
	// drained. Recoverable by purchasing more credits.
	ErrInsufficientCredit = errors.New("no remaining credits on subscription")

	// ErrInvalidPurchase flags malformed purchase input.
	ErrInvalidPurchase = errors.New("invalid purchase request")
)
