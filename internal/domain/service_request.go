package domain

import (
	"fmt"
	"time"
)

// ServiceRequestStatus enumerates appointment lifecycle states.
type ServiceRequestStatus string

const (
	ServiceRequestStatusPending    ServiceRequestStatus = "pending"
	ServiceRequestStatusScheduled  ServiceRequestStatus = "scheduled"
	ServiceRequestStatusInProgress ServiceRequestStatus = "in-progress"
	ServiceRequestStatusCompleted  ServiceRequestStatus = "completed"
	ServiceRequestStatusCancelled  ServiceRequestStatus = "cancelled"
)

// ServiceRequest models a scheduled home-service appointment.
type ServiceRequest struct {
	ID            string
	RequestNumber int
	CustomerID    string
	Service       string
	Description   *string
	ScheduledDate time.Time
	ScheduledTime *string
	Status        ServiceRequestStatus
	AssignedTo    *string
	Reported      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DisplayID renders the public identifier, e.g. SRV-007.
func (s *ServiceRequest) DisplayID() string {
	return fmt.Sprintf("SRV-%03d", s.RequestNumber)
}
