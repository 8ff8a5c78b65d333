package entitlement

import (
	"time"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// Decision is the outcome of evaluating a user's subscriptions against a
// requested key family. It carries which subscription granted access and
// whether that access costs a credit.
type Decision struct {
	Unlocked     bool
	Subscription *domain.Subscription
	// ChargeKey is the service key whose per-use balance must be consumed
	// before the gated action proceeds. Empty when access is free (monthly,
	// premium or global subscriptions).
	ChargeKey string
}

// Evaluate decides whether any of subs unlocks the requested keys at the given
// instant. It is pure: no I/O, no mutation, safe to call repeatedly.
//
// A premium or global subscription that is active and unexpired unlocks
// everything and is never charged. Otherwise the first active, unexpired
// subscription whose key matches the requested family wins; per-use
// subscriptions additionally need a positive balance and flag a charge.
func Evaluate(subs []domain.Subscription, now time.Time, requested ...string) Decision {
	for i := range subs {
		sub := &subs[i]
		if !sub.IsActive {
			continue
		}
		if (isPremiumKey(sub.ServiceKey) || sub.IsGlobal) && !sub.Expired(now) {
			return Decision{Unlocked: true, Subscription: sub}
		}
	}

	for i := range subs {
		sub := &subs[i]
		if !sub.IsActive || sub.IsGlobal {
			continue
		}
		if !matchesRequested(sub.ServiceKey, requested) {
			continue
		}
		if sub.Expired(now) {
			continue
		}
		switch sub.SubscriptionType {
		case domain.SubscriptionTypeMonthly:
			return Decision{Unlocked: true, Subscription: sub}
		case domain.SubscriptionTypePerUse:
			if sub.RemainingCredits > 0 {
				return Decision{Unlocked: true, Subscription: sub, ChargeKey: sub.ServiceKey}
			}
		}
	}

	return Decision{}
}
