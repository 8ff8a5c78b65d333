package dto

import (
	"time"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// CreateServiceRequestRequest payload. ScheduledDate uses the YYYY-MM-DD form.
type CreateServiceRequestRequest struct {
	Service       string  `json:"service"`
	Description   *string `json:"description"`
	ScheduledDate string  `json:"scheduled_date"`
	ScheduledTime *string `json:"scheduled_time"`
}

// UpdateServiceRequestRequest carries staff scheduling changes.
type UpdateServiceRequestRequest struct {
	Status     *domain.ServiceRequestStatus `json:"status"`
	AssignedTo *string                      `json:"assigned_to"`
}

// ServiceRequestResponse is the public view of an appointment.
type ServiceRequestResponse struct {
	ID            string                      `json:"id"`
	DisplayID     string                      `json:"display_id"`
	CustomerID    string                      `json:"customer_id"`
	Service       string                      `json:"service"`
	Description   *string                     `json:"description,omitempty"`
	ScheduledDate string                      `json:"scheduled_date"`
	ScheduledTime *string                     `json:"scheduled_time,omitempty"`
	Status        domain.ServiceRequestStatus `json:"status"`
	AssignedTo    *string                     `json:"assigned_to,omitempty"`
	Reported      bool                        `json:"reported"`
	CreatedAt     time.Time                   `json:"created_at"`
}
