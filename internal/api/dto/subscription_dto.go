package dto

import (
	"time"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// PurchaseSubscriptionRequest payload.
type PurchaseSubscriptionRequest struct {
	ServiceKey       string                  `json:"service_key"`
	IsGlobal         bool                    `json:"is_global"`
	SubscriptionType domain.SubscriptionType `json:"subscription_type"`
	Amount           *float64                `json:"amount"`
	Credits          int                     `json:"credits"`
	PaymentMethod    string                  `json:"payment_method"`
	CardNumber       string                  `json:"card_number"`
}

// ConsumeCreditRequest payload.
type ConsumeCreditRequest struct {
	ServiceKey string `json:"service_key"`
}

// SubscriptionResponse is the public view of one subscription row.
type SubscriptionResponse struct {
	ID               string                  `json:"id"`
	ServiceKey       string                  `json:"service_key,omitempty"`
	SubscriptionType domain.SubscriptionType `json:"subscription_type"`
	RemainingCredits int                     `json:"remaining_credits"`
	ExpiresAt        *time.Time              `json:"expires_at,omitempty"`
	IsActive         bool                    `json:"is_active"`
	IsGlobal         bool                    `json:"is_global"`
	Amount           float64                 `json:"amount"`
	CreatedAt        time.Time               `json:"created_at"`
}

// UnlockResponse reports an entitlement check result.
type UnlockResponse struct {
	Unlocked bool `json:"unlocked"`
}
