package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/events"
	"github.com/spec-kit/callcenter-service/internal/repository"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

// ComplaintService handles formal grievances. Filing a complaint is free:
// unlike tickets, it never consumes entitlement.
type ComplaintService struct {
	complaints repository.ComplaintRepository
	dispatcher events.Dispatcher
}

// ComplaintDependencies bundles collaborators.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	Dispatcher    events.Dispatcher
}

// ComplaintInput describes complaint creation payload.
type ComplaintInput struct {
	Subject       string
	Description   string
	RelatedTicket *string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{complaints: deps.ComplaintRepo, dispatcher: deps.Dispatcher}
}

// Create files a complaint for a customer.
func (s *ComplaintService) Create(ctx context.Context, customerID string, input ComplaintInput) (*domain.Complaint, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject is required", nil)
	}

	c := &domain.Complaint{
		CustomerID:    customerID,
		Subject:       subject,
		Description:   strings.TrimSpace(input.Description),
		Status:        domain.ComplaintStatusOpen,
		RelatedTicket: input.RelatedTicket,
	}
	if err := s.complaints.Create(ctx, c); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventComplaintFiled,
		ActorID: customerID,
		Payload: events.ComplaintFiledPayload{ComplaintID: c.ID, Subject: c.Subject},
	})
	return c, nil
}

// Get loads a single complaint. Customers only see their own.
func (s *ComplaintService) Get(ctx context.Context, user *domain.User, id string) (*domain.Complaint, error) {
	c, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", nil)
		}
		return nil, err
	}
	if !user.IsStaff() && c.CustomerID != user.ID {
		return nil, apperrors.NewNotFound("complaint", nil)
	}
	return c, nil
}

// ListForUser returns complaints visible to the caller.
func (s *ComplaintService) ListForUser(ctx context.Context, user *domain.User) ([]domain.Complaint, error) {
	if user.IsStaff() {
		return s.complaints.ListAll(ctx)
	}
	return s.complaints.ListByCustomer(ctx, user.ID)
}

// UpdateStatus moves a complaint through its lifecycle; staff only.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	switch status {
	case domain.ComplaintStatusOpen, domain.ComplaintStatusInProgress,
		domain.ComplaintStatusResolved, domain.ComplaintStatusDismissed:
	default:
		return nil, apperrors.NewValidationError("invalid complaint status", map[string]any{"status": status})
	}
	c, err := s.complaints.UpdateStatus(ctx, id, status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("complaint", nil)
		}
		return nil, err
	}
	return c, nil
}
