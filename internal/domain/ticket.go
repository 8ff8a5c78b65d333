package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen        TicketStatus = "open"
	TicketStatusAssigned    TicketStatus = "assigned"
	TicketStatusInProgress  TicketStatus = "in-progress"
	TicketStatusResolved    TicketStatus = "resolved"
	TicketStatusClosed      TicketStatus = "closed"
	TicketStatusTransferred TicketStatus = "transferred"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
)

// Ticket is the aggregate for customer support requests.
type Ticket struct {
	ID           string
	TicketNumber int
	CustomerID   string
	Title        string
	Description  string
	Category     string
	Priority     TicketPriority
	Status       TicketStatus
	AssignedTo   *string
	Rated        bool
	IsArchived   bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayID renders the zero-padded public identifier, e.g. TICKET-042.
func (t *Ticket) DisplayID() string {
	return ticketDisplayID(t.TicketNumber)
}
