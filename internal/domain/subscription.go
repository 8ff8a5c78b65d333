package domain

import "time"

// SubscriptionType distinguishes monthly passes from prepaid credit packs.
type SubscriptionType string

const (
	SubscriptionTypeMonthly SubscriptionType = "monthly"
	SubscriptionTypePerUse  SubscriptionType = "per-use"
)

// Subscription is one purchase/renewal record. Rows are never hard-deleted;
// superseded or exhausted rows are kept with IsActive=false for payment history.
type Subscription struct {
	ID               string
	UserID           string
	ServiceKey       string
	SubscriptionType SubscriptionType
	RemainingCredits int
	ExpiresAt        *time.Time
	IsActive         bool
	IsGlobal         bool
	Amount           float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Expired reports whether a monthly subscription has lapsed. Per-use
// subscriptions never expire by time.
func (s *Subscription) Expired(now time.Time) bool {
	if s.SubscriptionType != SubscriptionTypeMonthly {
		return false
	}
	return s.ExpiresAt != nil && !s.ExpiresAt.After(now)
}
