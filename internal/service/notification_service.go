package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/events"
	"github.com/spec-kit/callcenter-service/internal/repository"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"

	"github.com/jackc/pgx/v5"
)

// NotificationService turns domain events into per-user notification rows and
// serves the in-app notification feed. Delivery failures are logged and
// swallowed; a broken notification must never fail the action that caused it.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	dispatcher    events.Dispatcher
	logger        *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	NotificationRepo repository.NotificationRepository
	UserRepo         repository.UserRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	return &NotificationService{
		notifications: deps.NotificationRepo,
		users:         deps.UserRepo,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventSubscriptionPurchased, n.handleSubscriptionPurchased)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventServiceRequestCreated, n.handleServiceRequestCreated)
	n.dispatcher.Subscribe(events.EventServiceStatusChanged, n.handleServiceStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintFiled, n.handleComplaintFiled)
	n.dispatcher.Subscribe(events.EventRatingSubmitted, n.handleRatingSubmitted)
	n.dispatcher.Subscribe(events.EventReportFiled, n.handleReportFiled)
	n.dispatcher.Subscribe(events.EventPaymentRecorded, n.handlePaymentRecorded)
}

// ListForUser returns the caller's notification feed, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return n.notifications.ListByUser(ctx, userID)
}

// MarkRead flags one notification as read; ownership is enforced in the query.
func (n *NotificationService) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	notif, err := n.notifications.MarkRead(ctx, id, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("notification", nil)
		}
		return nil, err
	}
	return notif, nil
}

// MarkAllRead flags the caller's entire feed as read and returns the count.
func (n *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return n.notifications.MarkAllRead(ctx, userID)
}

// UnreadCount returns the caller's unread badge count.
func (n *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return n.notifications.UnreadCount(ctx, userID)
}

// Delete removes one notification; ownership is enforced in the query.
func (n *NotificationService) Delete(ctx context.Context, id, userID string) error {
	if err := n.notifications.Delete(ctx, id, userID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("notification", nil)
		}
		return err
	}
	return nil
}

// PruneRead deletes read notifications older than the retention window and
// returns the number removed.
func (n *NotificationService) PruneRead(ctx context.Context, retention time.Duration) (int64, error) {
	return n.notifications.DeleteReadBefore(ctx, time.Now().Add(-retention))
}

func (n *NotificationService) handleSubscriptionPurchased(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.SubscriptionPurchasedPayload)
	if !ok {
		return nil
	}
	scope := payload.ServiceKey
	if payload.IsGlobal {
		scope = "all services"
	}
	message := fmt.Sprintf("%s purchased a %s subscription for %s",
		n.actorName(ctx, event.ActorID), payload.SubscriptionType, scope)
	n.fanOut(ctx, event, domain.NotificationTypeSubscription, "New subscription", message,
		payload.SubscriptionID, domain.UserRoleAdmin)
	return nil
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketCreatedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("%s opened ticket %s: %s",
		n.actorName(ctx, event.ActorID), payload.DisplayID, payload.Title)
	n.fanOut(ctx, event, domain.NotificationTypeTicket, "New ticket", message,
		payload.TicketID, domain.UserRoleAdmin, domain.UserRoleEmployee)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your ticket %s is now %s", payload.DisplayID, payload.NewStatus)
	n.deliver(ctx, payload.CustomerID, domain.NotificationTypeTicket, "Ticket updated", message, payload.TicketID)
	return nil
}

func (n *NotificationService) handleServiceRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ServiceRequestCreatedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("%s requested %s (%s)",
		n.actorName(ctx, event.ActorID), payload.Service, payload.DisplayID)
	n.fanOut(ctx, event, domain.NotificationTypeService, "New service request", message,
		payload.RequestID, domain.UserRoleAdmin, domain.UserRoleEmployee)
	return nil
}

func (n *NotificationService) handleServiceStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ServiceStatusChangedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("Your %s request %s is now %s", payload.Service, payload.DisplayID, payload.NewStatus)
	n.deliver(ctx, payload.CustomerID, domain.NotificationTypeService, "Service updated", message, payload.RequestID)
	return nil
}

func (n *NotificationService) handleComplaintFiled(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintFiledPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("%s filed a complaint: %s", n.actorName(ctx, event.ActorID), payload.Subject)
	n.fanOut(ctx, event, domain.NotificationTypeComplaint, "New complaint", message,
		payload.ComplaintID, domain.UserRoleAdmin)
	return nil
}

func (n *NotificationService) handleRatingSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RatingSubmittedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("%s rated %s %d/5", n.actorName(ctx, event.ActorID), payload.DisplayID, payload.Score)
	n.fanOut(ctx, event, domain.NotificationTypeRating, "New rating", message,
		payload.EntityID, domain.UserRoleAdmin)
	return nil
}

func (n *NotificationService) handleReportFiled(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportFiledPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("%s filed a %s report: %s",
		n.actorName(ctx, event.ActorID), payload.ReportType, payload.Subject)
	n.fanOut(ctx, event, domain.NotificationTypeReport, "New report", message,
		payload.ReportID, domain.UserRoleAdmin)
	return nil
}

func (n *NotificationService) handlePaymentRecorded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PaymentRecordedPayload)
	if !ok {
		return nil
	}
	message := fmt.Sprintf("%s paid %.2f for %s",
		n.actorName(ctx, event.ActorID), payload.Amount, payload.ServiceKey)
	n.fanOut(ctx, event, domain.NotificationTypePayment, "Payment received", message,
		payload.PaymentID, domain.UserRoleAdmin)
	return nil
}

// fanOut writes one notification row per staff user in the given roles,
// skipping the actor so people are not notified about their own actions.
func (n *NotificationService) fanOut(ctx context.Context, event events.Event, kind domain.NotificationType, title, message, relatedID string, roles ...domain.UserRole) {
	ids, err := n.users.IDsByRoles(ctx, roles...)
	if err != nil {
		n.logger.Warn("notification fan-out failed", zap.String("event", string(event.Type)), zap.Error(err))
		return
	}
	for _, id := range ids {
		if id == event.ActorID {
			continue
		}
		n.deliver(ctx, id, kind, title, message, relatedID)
	}
}

func (n *NotificationService) deliver(ctx context.Context, userID string, kind domain.NotificationType, title, message, relatedID string) {
	notif := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
	}
	if relatedID != "" {
		notif.RelatedID = &relatedID
	}
	if err := n.notifications.Create(ctx, notif); err != nil {
		n.logger.Warn("notification write failed",
			zap.String("user_id", userID),
			zap.String("type", string(kind)),
			zap.Error(err))
	}
}

func (n *NotificationService) actorName(ctx context.Context, actorID string) string {
	if actorID == "" {
		return "Someone"
	}
	user, err := n.users.GetByID(ctx, actorID)
	if err != nil {
		return "Someone"
	}
	return user.Name
}
