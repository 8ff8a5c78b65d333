package dto

import (
	"time"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
}

// UpdateTicketRequest carries staff triage changes; nil fields stay untouched.
type UpdateTicketRequest struct {
	Status     *domain.TicketStatus   `json:"status"`
	Priority   *domain.TicketPriority `json:"priority"`
	AssignedTo *string                `json:"assigned_to"`
}

// CreateMessageRequest payload.
type CreateMessageRequest struct {
	Message string `json:"message"`
}

// RateRequest payload, shared by tickets and service requests.
type RateRequest struct {
	Score    int     `json:"score"`
	Feedback *string `json:"feedback"`
}

// TicketResponse is the public view of a ticket.
type TicketResponse struct {
	ID          string                `json:"id"`
	DisplayID   string                `json:"display_id"`
	CustomerID  string                `json:"customer_id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	Status      domain.TicketStatus   `json:"status"`
	AssignedTo  *string               `json:"assigned_to,omitempty"`
	Rated       bool                  `json:"rated"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// TicketMessageResponse is one thread entry.
type TicketMessageResponse struct {
	ID         string          `json:"id"`
	SenderID   string          `json:"sender_id"`
	SenderRole domain.UserRole `json:"sender_role"`
	Message    string          `json:"message"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TicketDetailResponse is a ticket plus its conversation thread.
type TicketDetailResponse struct {
	TicketResponse
	Messages []TicketMessageResponse `json:"messages"`
}
