package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/entitlement"
	"github.com/spec-kit/callcenter-service/internal/events"
	"github.com/spec-kit/callcenter-service/internal/repository"
)

// SubscriptionService fronts the entitlement engine for HTTP handlers and
// keeps the Redis read model of a user's subscriptions coherent: every
// mutating operation (purchase, credit consumption) drops the cached list, so
// readers always converge on the store as the source of truth.
type SubscriptionService struct {
	engine     *entitlement.Engine
	subs       repository.SubscriptionRepository
	cache      redis.Cmdable
	cacheTTL   time.Duration
	dispatcher events.Dispatcher
}

// SubscriptionDependencies bundles collaborators.
type SubscriptionDependencies struct {
	Engine     *entitlement.Engine
	SubRepo    repository.SubscriptionRepository
	Cache      redis.Cmdable
	CacheTTL   time.Duration
	Dispatcher events.Dispatcher
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(deps SubscriptionDependencies) *SubscriptionService {
	return &SubscriptionService{
		engine:     deps.Engine,
		subs:       deps.SubRepo,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		dispatcher: deps.Dispatcher,
	}
}

// List returns every subscription row for the user, newest first. The result
// is served from the Redis read-model cache when fresh.
func (s *SubscriptionService) List(ctx context.Context, userID string) ([]domain.Subscription, error) {
	if cached, ok := s.cachedList(ctx, userID); ok {
		return cached, nil
	}

	subs, err := s.subs.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.storeList(ctx, userID, subs)
	return subs, nil
}

// Purchase records a new subscription through the engine and announces it to
// the admin staff.
func (s *SubscriptionService) Purchase(ctx context.Context, input entitlement.PurchaseInput) (*domain.Subscription, error) {
	sub, err := s.engine.Purchase(ctx, input)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, input.UserID)

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventSubscriptionPurchased,
		ActorID: input.UserID,
		Payload: events.SubscriptionPurchasedPayload{
			SubscriptionID:   sub.ID,
			ServiceKey:       sub.ServiceKey,
			IsGlobal:         sub.IsGlobal,
			SubscriptionType: sub.SubscriptionType,
			Amount:           sub.Amount,
		},
	})
	return sub, nil
}

// ConsumeCredit charges one credit against the per-use subscription for the
// given key. Exposed directly for flows that pre-pay an action.
func (s *SubscriptionService) ConsumeCredit(ctx context.Context, userID, serviceKey string) (*domain.Subscription, error) {
	sub, err := s.engine.Consume(ctx, userID, serviceKey)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return sub, nil
}

// IsUnlocked evaluates entitlement without side effects.
func (s *SubscriptionService) IsUnlocked(ctx context.Context, userID string, keys ...string) (entitlement.Decision, error) {
	return s.engine.IsUnlocked(ctx, userID, keys...)
}

// Authorize runs the gated-action protocol for a key family and keeps the
// cache coherent when a credit was spent.
func (s *SubscriptionService) Authorize(ctx context.Context, userID string, keys ...string) (*domain.Subscription, error) {
	sub, err := s.engine.Authorize(ctx, userID, keys...)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	return sub, nil
}

const subscriptionCachePrefix = "subscriptions:"

func (s *SubscriptionService) cachedList(ctx context.Context, userID string) ([]domain.Subscription, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, subscriptionCachePrefix+userID).Bytes()
	if err != nil {
		return nil, false
	}
	var subs []domain.Subscription
	if err := json.Unmarshal(raw, &subs); err != nil {
		return nil, false
	}
	return subs, true
}

func (s *SubscriptionService) storeList(ctx context.Context, userID string, subs []domain.Subscription) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(subs)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, subscriptionCachePrefix+userID, raw, s.cacheTTL).Err()
}

func (s *SubscriptionService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, subscriptionCachePrefix+userID).Err()
}
