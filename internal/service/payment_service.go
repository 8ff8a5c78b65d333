package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/events"
	"github.com/spec-kit/callcenter-service/internal/repository"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

// PaymentService records the charges behind subscription purchases. Raw card
// numbers never reach storage; only the masked last four digits are kept.
type PaymentService struct {
	payments   repository.PaymentRepository
	dispatcher events.Dispatcher
}

// PaymentDependencies bundles collaborators.
type PaymentDependencies struct {
	PaymentRepo repository.PaymentRepository
	Dispatcher  events.Dispatcher
}

// PaymentInput describes a charge to record.
type PaymentInput struct {
	ServiceKey       string
	SubscriptionType domain.SubscriptionType
	Amount           float64
	PaymentMethod    string
	CardNumber       string
}

// NewPaymentService constructs the service.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	return &PaymentService{payments: deps.PaymentRepo, dispatcher: deps.Dispatcher}
}

// Record persists a completed charge for a user.
func (s *PaymentService) Record(ctx context.Context, userID string, input PaymentInput) (*domain.Payment, error) {
	if input.Amount < 0 {
		return nil, apperrors.NewValidationError("amount must not be negative", nil)
	}
	method := input.PaymentMethod
	if method == "" {
		method = "card"
	}

	p := &domain.Payment{
		UserID:           userID,
		ServiceKey:       input.ServiceKey,
		SubscriptionType: input.SubscriptionType,
		Amount:           input.Amount,
		PaymentMethod:    method,
		CardNumber:       maskCard(input.CardNumber),
		Status:           domain.PaymentStatusCompleted,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventPaymentRecorded,
		ActorID: userID,
		Payload: events.PaymentRecordedPayload{
			PaymentID:  p.ID,
			ServiceKey: p.ServiceKey,
			Amount:     p.Amount,
		},
	})
	return p, nil
}

// Get loads a single payment. Customers only see their own records.
func (s *PaymentService) Get(ctx context.Context, user *domain.User, id string) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("payment", nil)
		}
		return nil, err
	}
	if !user.IsStaff() && p.UserID != user.ID {
		return nil, apperrors.NewNotFound("payment", nil)
	}
	return p, nil
}

// SetStatus moves a payment through its settlement lifecycle; admin only.
func (s *PaymentService) SetStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	switch status {
	case domain.PaymentStatusPending, domain.PaymentStatusCompleted,
		domain.PaymentStatusFailed, domain.PaymentStatusRefunded:
	default:
		return nil, apperrors.NewValidationError("invalid payment status", map[string]any{"status": status})
	}
	p, err := s.payments.UpdateStatus(ctx, id, status)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("payment", nil)
		}
		return nil, err
	}
	return p, nil
}

// ListForUser returns payments visible to the caller.
func (s *PaymentService) ListForUser(ctx context.Context, user *domain.User) ([]domain.Payment, error) {
	if user.IsStaff() {
		return s.payments.ListAll(ctx)
	}
	return s.payments.ListByUser(ctx, user.ID)
}

// maskCard keeps only the last four digits of a card number. Anything too
// short to mask is dropped entirely.
func maskCard(raw string) *string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if len(digits) < 4 {
		return nil
	}
	masked := fmt.Sprintf("****-****-****-%s", digits[len(digits)-4:])
	return &masked
}
