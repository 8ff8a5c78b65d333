package events

import (
	"time"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubscriptionPurchased EventType = "subscription_purchased"
	EventTicketCreated         EventType = "ticket_created"
	EventTicketStatusChanged   EventType = "ticket_status_changed"
	EventServiceRequestCreated EventType = "service_request_created"
	EventServiceStatusChanged  EventType = "service_status_changed"
	EventComplaintFiled        EventType = "complaint_filed"
	EventRatingSubmitted       EventType = "rating_submitted"
	EventReportFiled           EventType = "report_filed"
	EventPaymentRecorded       EventType = "payment_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SubscriptionPurchasedPayload payload.
type SubscriptionPurchasedPayload struct {
	SubscriptionID   string                  `json:"subscription_id"`
	ServiceKey       string                  `json:"service_key,omitempty"`
	IsGlobal         bool                    `json:"is_global"`
	SubscriptionType domain.SubscriptionType `json:"subscription_type"`
	Amount           float64                 `json:"amount"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	TicketID  string                `json:"ticket_id"`
	DisplayID string                `json:"display_id"`
	Title     string                `json:"title"`
	Priority  domain.TicketPriority `json:"priority"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	TicketID   string              `json:"ticket_id"`
	DisplayID  string              `json:"display_id"`
	CustomerID string              `json:"customer_id"`
	NewStatus  domain.TicketStatus `json:"new_status"`
}

// ServiceRequestCreatedPayload payload.
type ServiceRequestCreatedPayload struct {
	RequestID string `json:"request_id"`
	DisplayID string `json:"display_id"`
	Service   string `json:"service"`
}

// ServiceStatusChangedPayload payload.
type ServiceStatusChangedPayload struct {
	RequestID  string                      `json:"request_id"`
	DisplayID  string                      `json:"display_id"`
	CustomerID string                      `json:"customer_id"`
	Service    string                      `json:"service"`
	NewStatus  domain.ServiceRequestStatus `json:"new_status"`
}

// ComplaintFiledPayload payload.
type ComplaintFiledPayload struct {
	ComplaintID string `json:"complaint_id"`
	Subject     string `json:"subject"`
}

// RatingSubmittedPayload payload.
type RatingSubmittedPayload struct {
	EntityID   string                  `json:"entity_id"`
	EntityType domain.RatingEntityType `json:"entity_type"`
	DisplayID  string                  `json:"display_id"`
	Score      int                     `json:"score"`
}

// ReportFiledPayload payload.
type ReportFiledPayload struct {
	ReportID   string `json:"report_id"`
	ReportType string `json:"report_type"`
	Subject    string `json:"subject"`
}

// PaymentRecordedPayload payload.
type PaymentRecordedPayload struct {
	PaymentID  string  `json:"payment_id"`
	ServiceKey string  `json:"service_key"`
	Amount     float64 `json:"amount"`
}
