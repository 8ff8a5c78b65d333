package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/entitlement"
	"github.com/spec-kit/callcenter-service/internal/events"
	"github.com/spec-kit/callcenter-service/internal/repository"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

// TicketService coordinates ticket workflows. Ticket creation is a gated
// action: entitlement is checked (and a credit consumed for per-use
// subscriptions) before any row is written.
type TicketService struct {
	tickets       repository.TicketRepository
	messages      repository.TicketMessageRepository
	ratings       repository.RatingRepository
	subscriptions *SubscriptionService
	dispatcher    events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	MessageRepo  repository.TicketMessageRepository
	RatingRepo   repository.RatingRepository
	Subscription *SubscriptionService
	Dispatcher   events.Dispatcher
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:       deps.TicketRepo,
		messages:      deps.MessageRepo,
		ratings:       deps.RatingRepo,
		subscriptions: deps.Subscription,
		dispatcher:    deps.Dispatcher,
	}
}

// CreateTicket files a ticket for a customer. The ticketing key family gates
// the action; a failed entitlement check aborts before anything is persisted.
// It returns the created ticket and the granting subscription so the caller
// can surface the remaining balance.
func (s *TicketService) CreateTicket(ctx context.Context, customerID string, input TicketCreateInput) (*domain.Ticket, *domain.Subscription, error) {
	sub, err := s.subscriptions.Authorize(ctx, customerID, entitlement.TicketingKeys...)
	if err != nil {
		return nil, nil, err
	}

	ticket := &domain.Ticket{
		CustomerID:  customerID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
	}
	if ticket.Category == "" {
		ticket.Category = "general"
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventTicketCreated,
		ActorID: customerID,
		Payload: events.TicketCreatedPayload{
			TicketID:  ticket.ID,
			DisplayID: ticket.DisplayID(),
			Title:     ticket.Title,
			Priority:  ticket.Priority,
		},
	})
	return ticket, sub, nil
}

// ListForUser returns tickets visible to the caller: customers see their own,
// staff see everything.
func (s *TicketService) ListForUser(ctx context.Context, user *domain.User, archived bool) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{Archived: archived}
	if !user.IsStaff() {
		filter.CustomerID = &user.ID
	}
	return s.tickets.List(ctx, filter)
}

// Get returns a ticket with its conversation thread, enforcing ownership for
// customers.
func (s *TicketService) Get(ctx context.Context, user *domain.User, ticketID string) (*domain.Ticket, []domain.TicketMessage, error) {
	ticket, err := s.loadVisible(ctx, user, ticketID)
	if err != nil {
		return nil, nil, err
	}
	msgs, err := s.messages.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, nil, err
	}
	return ticket, msgs, nil
}

// Update applies staff triage changes and notifies the customer of status
// transitions.
func (s *TicketService) Update(ctx context.Context, actor *domain.User, ticketID string, update repository.TicketUpdate) (*domain.Ticket, error) {
	ticket, err := s.tickets.Update(ctx, ticketID, update)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}

	if update.Status != nil {
		publish(ctx, s.dispatcher, events.Event{
			Type:    events.EventTicketStatusChanged,
			ActorID: actor.ID,
			Payload: events.TicketStatusChangedPayload{
				TicketID:   ticket.ID,
				DisplayID:  ticket.DisplayID(),
				CustomerID: ticket.CustomerID,
				NewStatus:  ticket.Status,
			},
		})
	}
	return ticket, nil
}

// Archive hides a ticket from default listings; admin only.
func (s *TicketService) Archive(ctx context.Context, ticketID string) error {
	return s.setArchived(ctx, ticketID, true)
}

// Unarchive restores an archived ticket to the default listings; admin only.
func (s *TicketService) Unarchive(ctx context.Context, ticketID string) error {
	return s.setArchived(ctx, ticketID, false)
}

func (s *TicketService) setArchived(ctx context.Context, ticketID string, archived bool) error {
	if err := s.tickets.SetArchived(ctx, ticketID, archived); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("ticket", nil)
		}
		return err
	}
	return nil
}

// ListMessages returns the conversation thread, enforcing ownership for
// customers.
func (s *TicketService) ListMessages(ctx context.Context, user *domain.User, ticketID string) ([]domain.TicketMessage, error) {
	ticket, err := s.loadVisible(ctx, user, ticketID)
	if err != nil {
		return nil, err
	}
	return s.messages.ListByTicket(ctx, ticket.ID)
}

// AddMessage appends to the conversation thread. Resolved tickets are closed
// for further discussion; customers must open a new ticket.
func (s *TicketService) AddMessage(ctx context.Context, user *domain.User, ticketID, body string) (*domain.TicketMessage, error) {
	ticket, err := s.loadVisible(ctx, user, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.Status == domain.TicketStatusResolved {
		return nil, apperrors.NewForbidden("ticket is resolved; open a new ticket to continue")
	}

	msg := &domain.TicketMessage{
		TicketID:   ticket.ID,
		SenderID:   user.ID,
		SenderRole: user.Role,
		Body:       strings.TrimSpace(body),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Rate records a customer's 1..5 score on a resolved or closed ticket, once.
func (s *TicketService) Rate(ctx context.Context, user *domain.User, ticketID string, score int, feedback *string) (*domain.Rating, error) {
	ticket, err := s.loadVisible(ctx, user, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.CustomerID != user.ID {
		return nil, apperrors.NewForbidden("only the requester may rate a ticket")
	}
	if ticket.Status != domain.TicketStatusResolved && ticket.Status != domain.TicketStatusClosed {
		return nil, apperrors.NewValidationError("ticket must be resolved before rating", nil)
	}
	if score < 1 || score > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}

	exists, err := s.ratings.Exists(ctx, user.ID, ticket.ID, domain.RatingEntityTicket)
	if err != nil {
		return nil, err
	}
	if exists || ticket.Rated {
		return nil, apperrors.NewConflict("ticket already rated", nil)
	}

	rating := &domain.Rating{
		UserID:     user.ID,
		EntityID:   ticket.ID,
		EntityType: domain.RatingEntityTicket,
		Score:      score,
		Feedback:   feedback,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}
	if err := s.tickets.MarkRated(ctx, ticket.ID); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventRatingSubmitted,
		ActorID: user.ID,
		Payload: events.RatingSubmittedPayload{
			EntityID:   ticket.ID,
			EntityType: domain.RatingEntityTicket,
			DisplayID:  ticket.DisplayID(),
			Score:      score,
		},
	})
	return rating, nil
}

func (s *TicketService) loadVisible(ctx context.Context, user *domain.User, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("ticket", nil)
		}
		return nil, err
	}
	if !user.IsStaff() && ticket.CustomerID != user.ID {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	return ticket, nil
}
