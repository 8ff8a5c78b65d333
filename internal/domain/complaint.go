package domain

import "time"

// ComplaintStatus enumerates complaint lifecycle states.
type ComplaintStatus string

const (
	ComplaintStatusOpen       ComplaintStatus = "open"
	ComplaintStatusInProgress ComplaintStatus = "in-progress"
	ComplaintStatusResolved   ComplaintStatus = "resolved"
	ComplaintStatusDismissed  ComplaintStatus = "dismissed"
)

// Complaint is a formal grievance filed by a customer, optionally tied to a ticket.
type Complaint struct {
	ID            string
	CustomerID    string
	Subject       string
	Description   string
	Status        ComplaintStatus
	RelatedTicket *string
	CreatedAt     time.Time
}
