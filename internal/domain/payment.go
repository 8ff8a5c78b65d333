package domain

import "time"

// PaymentStatus enumerates payment settlement states.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// Payment records the charge behind a subscription purchase. CardNumber holds
// only the masked form, never the raw PAN.
type Payment struct {
	ID               string
	UserID           string
	ServiceKey       string
	SubscriptionType SubscriptionType
	Amount           float64
	PaymentMethod    string
	CardNumber       *string
	Status           PaymentStatus
	CreatedAt        time.Time
}
