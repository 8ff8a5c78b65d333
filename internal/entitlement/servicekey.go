package entitlement

import "strings"

// Purchasable service keys. "premium" is a legacy alias still present in old
// subscription rows; it is honored by the premium override but cannot be
// purchased anymore.
const (
	KeyTicketingPerUse    = "ticketing-per-use"
	KeyTicketingMonthly   = "ticketing-monthly"
	KeyHomeServicePerUse  = "home-service-per-use"
	KeyHomeServiceMonthly = "home-service-monthly"
	KeyPremiumMonitoring  = "premium-monitoring"

	keyPremiumLegacy = "premium"
)

// TicketingKeys is the key family gating ticket creation.
var TicketingKeys = []string{KeyTicketingPerUse, KeyTicketingMonthly, KeyPremiumMonitoring}

// HomeServiceKeys is the key family gating service-request creation.
var HomeServiceKeys = []string{KeyHomeServicePerUse, KeyHomeServiceMonthly, KeyPremiumMonitoring}

var purchasableKeys = map[string]struct{}{
	KeyTicketingPerUse:    {},
	KeyTicketingMonthly:   {},
	KeyHomeServicePerUse:  {},
	KeyHomeServiceMonthly: {},
	KeyPremiumMonitoring:  {},
}

// KnownKey reports whether key belongs to the closed purchasable set.
func KnownKey(key string) bool {
	_, ok := purchasableKeys[key]
	return ok
}

func isPremiumKey(key string) bool {
	return key == keyPremiumLegacy || key == KeyPremiumMonitoring
}

// matchesRequested applies the single key-matching rule: a subscription key
// matches when it equals any requested key, or when it is a dash-namespaced
// variant of the first requested key (e.g. requested "ticketing" matches
// "ticketing-per-use"). The prefix form exists for family-level requests and
// only kicks in when no exact match is possible.
func matchesRequested(subKey string, requested []string) bool {
	for _, key := range requested {
		if subKey == key {
			return true
		}
	}
	if len(requested) == 0 {
		return false
	}
	return strings.HasPrefix(subKey, requested[0]+"-")
}
