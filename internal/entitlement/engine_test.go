package entitlement

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// memStore is an in-memory Store mirroring the conditional-update semantics
// of the Postgres implementation.
type memStore struct {
	mu   sync.Mutex
	subs []*domain.Subscription
	seq  int
}

func (m *memStore) ActiveByUser(_ context.Context, userID string) ([]domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Subscription
	for _, sub := range m.subs {
		if sub.UserID == userID && sub.IsActive {
			out = append(out, *sub)
		}
	}
	return out, nil
}

func (m *memStore) Replace(_ context.Context, sub *domain.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.subs {
		if existing.UserID != sub.UserID || !existing.IsActive {
			continue
		}
		if sub.IsGlobal && existing.IsGlobal {
			existing.IsActive = false
		}
		if !sub.IsGlobal && !existing.IsGlobal && existing.ServiceKey == sub.ServiceKey {
			existing.IsActive = false
		}
	}
	m.seq++
	sub.ID = "sub-" + strconv.Itoa(m.seq)
	stored := *sub
	m.subs = append(m.subs, &stored)
	return nil
}

func (m *memStore) ConsumeCredit(_ context.Context, userID, serviceKey string) (*domain.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if serviceKey == KeyPremiumMonitoring {
		return nil, ErrInsufficientCredit
	}
	for _, sub := range m.subs {
		if sub.UserID != userID || sub.ServiceKey != serviceKey || sub.IsGlobal {
			continue
		}
		if !sub.IsActive || sub.SubscriptionType != domain.SubscriptionTypePerUse {
			continue
		}
		if sub.RemainingCredits <= 0 {
			continue
		}
		sub.RemainingCredits--
		sub.IsActive = sub.RemainingCredits > 0
		copied := *sub
		return &copied, nil
	}
	return nil, ErrInsufficientCredit
}

func amountOf(v float64) *float64 { return &v }

func newTestEngine(t *testing.T) (*Engine, *memStore) {
	t.Helper()
	store := &memStore{}
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	return NewEngineAt(store, func() time.Time { return now }), store
}

func TestPurchase_RejectsMalformedInput(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	cases := []PurchaseInput{
		{UserID: "u1", ServiceKey: KeyTicketingPerUse, SubscriptionType: "weekly", Amount: amountOf(10)},
		{UserID: "u1", SubscriptionType: domain.SubscriptionTypeMonthly, Amount: amountOf(10)},
		{UserID: "u1", ServiceKey: "no-such-key", SubscriptionType: domain.SubscriptionTypeMonthly, Amount: amountOf(10)},
		{UserID: "u1", ServiceKey: KeyTicketingMonthly, SubscriptionType: domain.SubscriptionTypeMonthly},
		{UserID: "u1", ServiceKey: KeyTicketingPerUse, SubscriptionType: domain.SubscriptionTypePerUse, Amount: amountOf(10), Credits: -1},
	}
	for _, input := range cases {
		_, err := engine.Purchase(ctx, input)
		require.ErrorIs(t, err, ErrInvalidPurchase)
	}
}

func TestPurchase_MonthlyExpiresOneCalendarMonthOut(t *testing.T) {
	engine, _ := newTestEngine(t)

	sub, err := engine.Purchase(context.Background(), PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyTicketingMonthly,
		SubscriptionType: domain.SubscriptionTypeMonthly,
		Amount:           amountOf(29.99),
	})
	require.NoError(t, err)
	require.NotNil(t, sub.ExpiresAt)
	require.Equal(t, time.Date(2025, 7, 15, 12, 0, 0, 0, time.UTC), *sub.ExpiresAt)
	require.True(t, sub.IsActive)
}

func TestPurchase_PerUseSeedsCredits(t *testing.T) {
	engine, _ := newTestEngine(t)

	sub, err := engine.Purchase(context.Background(), PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyTicketingPerUse,
		SubscriptionType: domain.SubscriptionTypePerUse,
		Amount:           amountOf(5),
		Credits:          3,
	})
	require.NoError(t, err)
	require.Equal(t, 3, sub.RemainingCredits)
	require.Nil(t, sub.ExpiresAt)
}

func TestPurchase_SupersedesSameScope(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	first, err := engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyTicketingPerUse,
		SubscriptionType: domain.SubscriptionTypePerUse,
		Amount:           amountOf(5),
		Credits:          1,
	})
	require.NoError(t, err)

	second, err := engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyTicketingPerUse,
		SubscriptionType: domain.SubscriptionTypePerUse,
		Amount:           amountOf(5),
		Credits:          10,
	})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	active, err := store.ActiveByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, second.ID, active[0].ID)
	require.Equal(t, 10, active[0].RemainingCredits)
}

func TestPurchase_MonthlySupersedesPerUseSameKey(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	perUse, err := engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyTicketingPerUse,
		SubscriptionType: domain.SubscriptionTypePerUse,
		Amount:           amountOf(5),
		Credits:          3,
	})
	require.NoError(t, err)

	monthly, err := engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyTicketingPerUse,
		SubscriptionType: domain.SubscriptionTypeMonthly,
		Amount:           amountOf(30),
	})
	require.NoError(t, err)

	active, err := store.ActiveByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, monthly.ID, active[0].ID)
	require.Equal(t, domain.SubscriptionTypeMonthly, active[0].SubscriptionType)

	// The superseded per-use row keeps its balance but is out of play.
	for _, sub := range store.subs {
		if sub.ID == perUse.ID {
			require.False(t, sub.IsActive)
			require.Equal(t, 3, sub.RemainingCredits)
		}
	}
}

func TestPurchase_DifferentScopesCoexist(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyTicketingMonthly,
		SubscriptionType: domain.SubscriptionTypeMonthly,
		Amount:           amountOf(30),
	})
	require.NoError(t, err)

	_, err = engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyHomeServicePerUse,
		SubscriptionType: domain.SubscriptionTypePerUse,
		Amount:           amountOf(10),
		Credits:          2,
	})
	require.NoError(t, err)

	active, err := store.ActiveByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 2)
}

func TestAuthorize_WithoutSubscription(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.Authorize(context.Background(), "u1", TicketingKeys...)
	require.ErrorIs(t, err, ErrSubscriptionRequired)
}

func TestAuthorize_MonthlyIsFree(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyTicketingMonthly,
		SubscriptionType: domain.SubscriptionTypeMonthly,
		Amount:           amountOf(30),
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		sub, err := engine.Authorize(ctx, "u1", TicketingKeys...)
		require.NoError(t, err)
		require.Equal(t, KeyTicketingMonthly, sub.ServiceKey)
	}
}

func TestAuthorize_PerUseDecrementsAndDeactivates(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyTicketingPerUse,
		SubscriptionType: domain.SubscriptionTypePerUse,
		Amount:           amountOf(10),
		Credits:          2,
	})
	require.NoError(t, err)

	sub, err := engine.Authorize(ctx, "u1", TicketingKeys...)
	require.NoError(t, err)
	require.Equal(t, 1, sub.RemainingCredits)
	require.True(t, sub.IsActive)

	sub, err = engine.Authorize(ctx, "u1", TicketingKeys...)
	require.NoError(t, err)
	require.Equal(t, 0, sub.RemainingCredits)
	require.False(t, sub.IsActive, "last credit must deactivate the subscription")

	_, err = engine.Authorize(ctx, "u1", TicketingKeys...)
	require.ErrorIs(t, err, ErrSubscriptionRequired)
}

func TestAuthorize_PremiumNeverCharged(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyPremiumMonitoring,
		SubscriptionType: domain.SubscriptionTypePerUse,
		Amount:           amountOf(99),
		Credits:          5,
	})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := engine.Authorize(ctx, "u1", TicketingKeys...)
		require.NoError(t, err)
	}

	active, err := store.ActiveByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, 5, active[0].RemainingCredits, "premium balance must be untouched")
}

func TestConsume_ConcurrentSingleCredit(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.Purchase(ctx, PurchaseInput{
		UserID:           "u1",
		ServiceKey:       KeyHomeServicePerUse,
		SubscriptionType: domain.SubscriptionTypePerUse,
		Amount:           amountOf(10),
		Credits:          1,
	})
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Consume(ctx, "u1", KeyHomeServicePerUse)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, insufficient int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInsufficientCredit):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, successes, "exactly one caller may spend the last credit")
	require.Equal(t, workers-1, insufficient)

	active, err := store.ActiveByUser(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, active, "drained subscription must be deactivated")
}
