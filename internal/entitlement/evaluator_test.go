package entitlement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

var evalNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func monthlySub(key string, expires time.Time) domain.Subscription {
	return domain.Subscription{
		ServiceKey:       key,
		SubscriptionType: domain.SubscriptionTypeMonthly,
		ExpiresAt:        &expires,
		IsActive:         true,
	}
}

func perUseSub(key string, credits int) domain.Subscription {
	return domain.Subscription{
		ServiceKey:       key,
		SubscriptionType: domain.SubscriptionTypePerUse,
		RemainingCredits: credits,
		IsActive:         true,
	}
}

func TestEvaluate_NoSubscriptions(t *testing.T) {
	decision := Evaluate(nil, evalNow, TicketingKeys...)
	require.False(t, decision.Unlocked)
	require.Nil(t, decision.Subscription)
}

func TestEvaluate_PremiumMonitoringUnlocksEverythingUncharged(t *testing.T) {
	subs := []domain.Subscription{monthlySub(KeyPremiumMonitoring, evalNow.Add(24*time.Hour))}

	for _, keys := range [][]string{TicketingKeys, HomeServiceKeys, {"anything-else"}} {
		decision := Evaluate(subs, evalNow, keys...)
		require.True(t, decision.Unlocked)
		require.Empty(t, decision.ChargeKey)
		require.Equal(t, KeyPremiumMonitoring, decision.Subscription.ServiceKey)
	}
}

func TestEvaluate_LegacyPremiumKeyStillOverrides(t *testing.T) {
	subs := []domain.Subscription{monthlySub("premium", evalNow.Add(time.Hour))}

	decision := Evaluate(subs, evalNow, TicketingKeys...)
	require.True(t, decision.Unlocked)
	require.Empty(t, decision.ChargeKey)
}

func TestEvaluate_ExpiredPremiumDoesNotOverride(t *testing.T) {
	subs := []domain.Subscription{monthlySub(KeyPremiumMonitoring, evalNow.Add(-time.Minute))}

	decision := Evaluate(subs, evalNow, TicketingKeys...)
	require.False(t, decision.Unlocked)
}

func TestEvaluate_GlobalSubscriptionUnlocksAnyKey(t *testing.T) {
	expires := evalNow.Add(48 * time.Hour)
	subs := []domain.Subscription{{
		SubscriptionType: domain.SubscriptionTypeMonthly,
		ExpiresAt:        &expires,
		IsActive:         true,
		IsGlobal:         true,
	}}

	decision := Evaluate(subs, evalNow, HomeServiceKeys...)
	require.True(t, decision.Unlocked)
	require.Empty(t, decision.ChargeKey)
}

func TestEvaluate_MonthlyExactMatch(t *testing.T) {
	subs := []domain.Subscription{monthlySub(KeyTicketingMonthly, evalNow.Add(time.Hour))}

	decision := Evaluate(subs, evalNow, TicketingKeys...)
	require.True(t, decision.Unlocked)
	require.Empty(t, decision.ChargeKey)

	// Same subscription does not unlock the other family.
	decision = Evaluate(subs, evalNow, HomeServiceKeys...)
	require.False(t, decision.Unlocked)
}

func TestEvaluate_ExpiredMonthlyIsLocked(t *testing.T) {
	subs := []domain.Subscription{monthlySub(KeyTicketingMonthly, evalNow.Add(-time.Second))}

	decision := Evaluate(subs, evalNow, TicketingKeys...)
	require.False(t, decision.Unlocked)
}

func TestEvaluate_PerUseFlagsCharge(t *testing.T) {
	subs := []domain.Subscription{perUseSub(KeyTicketingPerUse, 3)}

	decision := Evaluate(subs, evalNow, TicketingKeys...)
	require.True(t, decision.Unlocked)
	require.Equal(t, KeyTicketingPerUse, decision.ChargeKey)
}

func TestEvaluate_ExhaustedPerUseIsLocked(t *testing.T) {
	subs := []domain.Subscription{perUseSub(KeyTicketingPerUse, 0)}

	decision := Evaluate(subs, evalNow, TicketingKeys...)
	require.False(t, decision.Unlocked)
}

func TestEvaluate_FamilyPrefixMatch(t *testing.T) {
	subs := []domain.Subscription{perUseSub(KeyHomeServicePerUse, 1)}

	// A family-level request matches dash-namespaced variants of the first key.
	decision := Evaluate(subs, evalNow, "home-service")
	require.True(t, decision.Unlocked)
	require.Equal(t, KeyHomeServicePerUse, decision.ChargeKey)
}

func TestEvaluate_InactiveSubscriptionsIgnored(t *testing.T) {
	sub := monthlySub(KeyTicketingMonthly, evalNow.Add(time.Hour))
	sub.IsActive = false

	decision := Evaluate([]domain.Subscription{sub}, evalNow, TicketingKeys...)
	require.False(t, decision.Unlocked)
}

func TestEvaluate_PremiumPreferredOverChargeable(t *testing.T) {
	subs := []domain.Subscription{
		perUseSub(KeyTicketingPerUse, 5),
		monthlySub(KeyPremiumMonitoring, evalNow.Add(time.Hour)),
	}

	decision := Evaluate(subs, evalNow, TicketingKeys...)
	require.True(t, decision.Unlocked)
	require.Empty(t, decision.ChargeKey, "premium access must never cost a credit")
}
