package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// Store is the persistence contract the engine needs. The production
// implementation lives in internal/repository backed by Postgres.
type Store interface {
	// ActiveByUser returns all subscriptions with IsActive=true for the user.
	ActiveByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
	// Replace deactivates any active subscription of the same scope
	// (same service key, or global when sub.IsGlobal) and inserts sub as the
	// new active row, atomically.
	Replace(ctx context.Context, sub *domain.Subscription) error
	// ConsumeCredit decrements the active per-use subscription for
	// (userID, serviceKey) by one and deactivates it when the balance hits
	// zero, as a single conditional update. It returns ErrInsufficientCredit
	// when no chargeable row exists.
	ConsumeCredit(ctx context.Context, userID, serviceKey string) (*domain.Subscription, error)
}

// PurchaseInput carries a subscription purchase request.
type PurchaseInput struct {
	UserID           string
	ServiceKey       string
	IsGlobal         bool
	SubscriptionType domain.SubscriptionType
	// Amount is required; zero is a valid price (comped subscriptions).
	Amount *float64
	// Credits seeds the balance for per-use purchases. Ignored for monthly.
	Credits int
}

// Engine is the single source of truth for entitlement decisions and
// subscription state transitions. Route handlers must not re-implement any of
// its rules.
type Engine struct {
	store Store
	now   func() time.Time
}

// NewEngine builds an engine over the given store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// NewEngineAt builds an engine with a fixed clock source, used by tests.
func NewEngineAt(store Store, now func() time.Time) *Engine {
	return &Engine{store: store, now: now}
}

// IsUnlocked evaluates the user's active subscriptions against the requested
// key family. Read-only and safe to retry.
func (e *Engine) IsUnlocked(ctx context.Context, userID string, requested ...string) (Decision, error) {
	subs, err := e.store.ActiveByUser(ctx, userID)
	if err != nil {
		return Decision{}, err
	}
	return Evaluate(subs, e.now(), requested...), nil
}

// Purchase records a new subscription, superseding any prior active one of the
// same scope. Monthly subscriptions expire one calendar month from now;
// per-use subscriptions start with the purchased credit count.
func (e *Engine) Purchase(ctx context.Context, input PurchaseInput) (*domain.Subscription, error) {
	if err := validatePurchase(input); err != nil {
		return nil, err
	}

	sub := &domain.Subscription{
		UserID:           input.UserID,
		ServiceKey:       input.ServiceKey,
		SubscriptionType: input.SubscriptionType,
		IsGlobal:         input.IsGlobal,
		IsActive:         true,
		Amount:           *input.Amount,
	}
	switch input.SubscriptionType {
	case domain.SubscriptionTypeMonthly:
		expires := e.now().AddDate(0, 1, 0)
		sub.ExpiresAt = &expires
	case domain.SubscriptionTypePerUse:
		sub.RemainingCredits = input.Credits
	}

	if err := e.store.Replace(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Consume charges one credit against the user's per-use subscription for
// serviceKey. Premium and global subscriptions are never charged; callers must
// only pass a ChargeKey obtained from a Decision.
func (e *Engine) Consume(ctx context.Context, userID, serviceKey string) (*domain.Subscription, error) {
	return e.store.ConsumeCredit(ctx, userID, serviceKey)
}

// Authorize runs the gated-action protocol: evaluate entitlement for the
// requested keys and, when access is backed by a per-use subscription, consume
// one credit. It returns the granting subscription (post-decrement for
// per-use). Nothing is charged for premium, global or monthly access.
func (e *Engine) Authorize(ctx context.Context, userID string, requested ...string) (*domain.Subscription, error) {
	decision, err := e.IsUnlocked(ctx, userID, requested...)
	if err != nil {
		return nil, err
	}
	if !decision.Unlocked {
		return nil, ErrSubscriptionRequired
	}
	if decision.ChargeKey == "" {
		return decision.Subscription, nil
	}
	return e.Consume(ctx, userID, decision.ChargeKey)
}

func validatePurchase(input PurchaseInput) error {
	if input.SubscriptionType != domain.SubscriptionTypeMonthly &&
		input.SubscriptionType != domain.SubscriptionTypePerUse {
		return fmt.Errorf("%w: unrecognized subscription_type %q", ErrInvalidPurchase, input.SubscriptionType)
	}
	if !input.IsGlobal && input.ServiceKey == "" {
		return fmt.Errorf("%w: service_key or is_global required", ErrInvalidPurchase)
	}
	if !input.IsGlobal && !KnownKey(input.ServiceKey) {
		return fmt.Errorf("%w: unknown service_key %q", ErrInvalidPurchase, input.ServiceKey)
	}
	if input.Amount == nil {
		return fmt.Errorf("%w: amount required", ErrInvalidPurchase)
	}
	if input.Credits < 0 {
		return fmt.Errorf("%w: credits must not be negative", ErrInvalidPurchase)
	}
	return nil
}
