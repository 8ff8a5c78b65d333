package service

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/entitlement"
	"github.com/spec-kit/callcenter-service/internal/events"
	"github.com/spec-kit/callcenter-service/internal/repository"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

// ServiceRequestService coordinates home-service appointments. Creation is
// gated on the home-service key family the same way ticket creation is gated
// on ticketing.
type ServiceRequestService struct {
	requests      repository.ServiceRequestRepository
	ratings       repository.RatingRepository
	subscriptions *SubscriptionService
	dispatcher    events.Dispatcher
}

// ServiceRequestDependencies bundles collaborators.
type ServiceRequestDependencies struct {
	RequestRepo  repository.ServiceRequestRepository
	RatingRepo   repository.RatingRepository
	Subscription *SubscriptionService
	Dispatcher   events.Dispatcher
}

// ServiceRequestInput describes appointment creation payload.
type ServiceRequestInput struct {
	Service       string
	Description   *string
	ScheduledDate time.Time
	ScheduledTime *string
}

// NewServiceRequestService constructs the service.
func NewServiceRequestService(deps ServiceRequestDependencies) *ServiceRequestService {
	return &ServiceRequestService{
		requests:      deps.RequestRepo,
		ratings:       deps.RatingRepo,
		subscriptions: deps.Subscription,
		dispatcher:    deps.Dispatcher,
	}
}

// Create books a home-service appointment for a customer. Entitlement is
// checked, and a per-use credit consumed, before the row is written.
func (s *ServiceRequestService) Create(ctx context.Context, customerID string, input ServiceRequestInput) (*domain.ServiceRequest, *domain.Subscription, error) {
	if strings.TrimSpace(input.Service) == "" {
		return nil, nil, apperrors.NewValidationError("service is required", nil)
	}
	if input.ScheduledDate.IsZero() {
		return nil, nil, apperrors.NewValidationError("scheduled_date is required", nil)
	}

	sub, err := s.subscriptions.Authorize(ctx, customerID, entitlement.HomeServiceKeys...)
	if err != nil {
		return nil, nil, err
	}

	req := &domain.ServiceRequest{
		CustomerID:    customerID,
		Service:       strings.TrimSpace(input.Service),
		Description:   input.Description,
		ScheduledDate: input.ScheduledDate,
		ScheduledTime: input.ScheduledTime,
		Status:        domain.ServiceRequestStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventServiceRequestCreated,
		ActorID: customerID,
		Payload: events.ServiceRequestCreatedPayload{
			RequestID: req.ID,
			DisplayID: req.DisplayID(),
			Service:   req.Service,
		},
	})
	return req, sub, nil
}

// ListForUser returns appointments visible to the caller.
func (s *ServiceRequestService) ListForUser(ctx context.Context, user *domain.User) ([]domain.ServiceRequest, error) {
	if user.IsStaff() {
		return s.requests.ListAll(ctx)
	}
	return s.requests.ListByCustomer(ctx, user.ID)
}

// Get returns a single appointment, enforcing ownership for customers.
func (s *ServiceRequestService) Get(ctx context.Context, user *domain.User, requestID string) (*domain.ServiceRequest, error) {
	return s.loadVisible(ctx, user, requestID)
}

// Update applies staff scheduling changes and notifies the customer of status
// transitions.
func (s *ServiceRequestService) Update(ctx context.Context, actor *domain.User, requestID string, update repository.ServiceRequestUpdate) (*domain.ServiceRequest, error) {
	req, err := s.requests.Update(ctx, requestID, update)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("service request", nil)
		}
		return nil, err
	}

	if update.Status != nil {
		publish(ctx, s.dispatcher, events.Event{
			Type:    events.EventServiceStatusChanged,
			ActorID: actor.ID,
			Payload: events.ServiceStatusChangedPayload{
				RequestID:  req.ID,
				DisplayID:  req.DisplayID(),
				CustomerID: req.CustomerID,
				Service:    req.Service,
				NewStatus:  req.Status,
			},
		})
	}
	return req, nil
}

// Rate records the customer's score on a completed appointment, once.
func (s *ServiceRequestService) Rate(ctx context.Context, user *domain.User, requestID string, score int, feedback *string) (*domain.Rating, error) {
	req, err := s.loadVisible(ctx, user, requestID)
	if err != nil {
		return nil, err
	}
	if req.CustomerID != user.ID {
		return nil, apperrors.NewForbidden("only the requester may rate a service")
	}
	if req.Status != domain.ServiceRequestStatusCompleted {
		return nil, apperrors.NewValidationError("service must be completed before rating", nil)
	}
	if score < 1 || score > 5 {
		return nil, apperrors.NewValidationError("rating must be between 1 and 5", nil)
	}

	exists, err := s.ratings.Exists(ctx, user.ID, req.ID, domain.RatingEntityServiceRequest)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflict("service already rated", nil)
	}

	rating := &domain.Rating{
		UserID:     user.ID,
		EntityID:   req.ID,
		EntityType: domain.RatingEntityServiceRequest,
		Score:      score,
		Feedback:   feedback,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventRatingSubmitted,
		ActorID: user.ID,
		Payload: events.RatingSubmittedPayload{
			EntityID:   req.ID,
			EntityType: domain.RatingEntityServiceRequest,
			DisplayID:  req.DisplayID(),
			Score:      score,
		},
	})
	return rating, nil
}

func (s *ServiceRequestService) loadVisible(ctx context.Context, user *domain.User, requestID string) (*domain.ServiceRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("service request", nil)
		}
		return nil, err
	}
	if !user.IsStaff() && req.CustomerID != user.ID {
		return nil, apperrors.NewNotFound("service request", nil)
	}
	return req, nil
}
