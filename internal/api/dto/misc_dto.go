package dto

import (
	"time"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Subject       string  `json:"subject"`
	Description   string  `json:"description"`
	RelatedTicket *string `json:"related_ticket"`
}

// UpdateComplaintStatusRequest payload; staff only.
type UpdateComplaintStatusRequest struct {
	Status domain.ComplaintStatus `json:"status"`
}

// ComplaintResponse is the public view of a complaint.
type ComplaintResponse struct {
	ID            string                 `json:"id"`
	CustomerID    string                 `json:"customer_id"`
	Subject       string                 `json:"subject"`
	Description   string                 `json:"description"`
	Status        domain.ComplaintStatus `json:"status"`
	RelatedTicket *string                `json:"related_ticket,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NotificationResponse is one feed entry.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      domain.NotificationType `json:"type"`
	RelatedID *string                 `json:"related_id,omitempty"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

// PaymentResponse is the public view of one charge.
type PaymentResponse struct {
	ID               string                  `json:"id"`
	UserID           string                  `json:"user_id"`
	ServiceKey       string                  `json:"service_key"`
	SubscriptionType domain.SubscriptionType `json:"subscription_type"`
	Amount           float64                 `json:"amount"`
	PaymentMethod    string                  `json:"payment_method"`
	CardNumber       *string                 `json:"card_number,omitempty"`
	Status           domain.PaymentStatus    `json:"status"`
	CreatedAt        time.Time               `json:"created_at"`
}

// UpdatePaymentStatusRequest payload; admin only.
type UpdatePaymentStatusRequest struct {
	Status string `json:"status"`
}

// CreateReportRequest payload; staff only.
type CreateReportRequest struct {
	ReportType      string  `json:"report_type"`
	Priority        string  `json:"priority"`
	RelatedID       *string `json:"related_id"`
	Subject         string  `json:"subject"`
	Description     string  `json:"description"`
	SuggestedAction *string `json:"suggested_action"`
}

// ReportResponse is the staff view of a report.
type ReportResponse struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	ReportType      string    `json:"report_type"`
	Priority        string    `json:"priority"`
	RelatedID       *string   `json:"related_id,omitempty"`
	Subject         string    `json:"subject"`
	Description     string    `json:"description"`
	SuggestedAction *string   `json:"suggested_action,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
