package domain

import (
	"fmt"
	"time"
)

// TicketMessage is one entry in a ticket's conversation thread.
type TicketMessage struct {
	ID         string
	TicketID   string
	SenderID   string
	SenderRole UserRole
	Body       string
	CreatedAt  time.Time
}

func ticketDisplayID(number int) string {
	return fmt.Sprintf("TICKET-%03d", number)
}
