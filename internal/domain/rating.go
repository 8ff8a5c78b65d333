package domain

import "time"

// RatingEntityType identifies what a rating applies to.
type RatingEntityType string

const (
	RatingEntityTicket         RatingEntityType = "ticket"
	RatingEntityServiceRequest RatingEntityType = "service_request"
)

// Rating is a 1..5 score a customer leaves on a resolved interaction.
type Rating struct {
	ID         string
	UserID     string
	EntityID   string
	EntityType RatingEntityType
	Score      int
	Feedback   *string
	CreatedAt  time.Time
}
