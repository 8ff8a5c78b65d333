package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/callcenter-service/internal/api/dto"
	"github.com/spec-kit/callcenter-service/internal/auth"
	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/entitlement"
	"github.com/spec-kit/callcenter-service/internal/service"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

// SubscriptionsHandler exposes subscription and entitlement endpoints.
type SubscriptionsHandler struct {
	subscriptions *service.SubscriptionService
	payments      *service.PaymentService
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subscriptionService *service.SubscriptionService, paymentService *service.PaymentService) *SubscriptionsHandler {
	return &SubscriptionsHandler{subscriptions: subscriptionService, payments: paymentService}
}

// List GET /subscriptions.
func (h *SubscriptionsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	subs, err := h.subscriptions.List(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		items = append(items, subscriptionResponse(&subs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Purchase POST /subscriptions/purchase. Records the charge alongside the new
// subscription row.
func (h *SubscriptionsHandler) Purchase(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.PurchaseSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	sub, err := h.subscriptions.Purchase(c.Context(), entitlement.PurchaseInput{
		UserID:           principal.User.ID,
		ServiceKey:       req.ServiceKey,
		IsGlobal:         req.IsGlobal,
		SubscriptionType: req.SubscriptionType,
		Amount:           req.Amount,
		Credits:          req.Credits,
	})
	if err != nil {
		return err
	}

	serviceKey := sub.ServiceKey
	if sub.IsGlobal {
		serviceKey = "global"
	}
	payment, err := h.payments.Record(c.Context(), principal.User.ID, service.PaymentInput{
		ServiceKey:       serviceKey,
		SubscriptionType: sub.SubscriptionType,
		Amount:           sub.Amount,
		PaymentMethod:    req.PaymentMethod,
		CardNumber:       req.CardNumber,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"subscription": subscriptionResponse(sub),
		"payment":      paymentResponse(payment),
	}})
}

// Consume POST /subscriptions/consume.
func (h *SubscriptionsHandler) Consume(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ConsumeCreditRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ServiceKey == "" {
		return apperrors.NewValidationError("service_key required", nil)
	}

	sub, err := h.subscriptions.ConsumeCredit(c.Context(), principal.User.ID, req.ServiceKey)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": subscriptionResponse(sub)})
}

// Unlocked GET /subscriptions/unlocked?keys=a,b.
func (h *SubscriptionsHandler) Unlocked(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	raw := strings.TrimSpace(c.Query("keys"))
	if raw == "" {
		return apperrors.NewValidationError("keys query parameter required", nil)
	}
	keys := strings.Split(raw, ",")
	for i := range keys {
		keys[i] = strings.TrimSpace(keys[i])
	}

	decision, err := h.subscriptions.IsUnlocked(c.Context(), principal.User.ID, keys...)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.UnlockResponse{Unlocked: decision.Unlocked}})
}

func subscriptionResponse(sub *domain.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		ID:               sub.ID,
		ServiceKey:       sub.ServiceKey,
		SubscriptionType: sub.SubscriptionType,
		RemainingCredits: sub.RemainingCredits,
		ExpiresAt:        sub.ExpiresAt,
		IsActive:         sub.IsActive,
		IsGlobal:         sub.IsGlobal,
		Amount:           sub.Amount,
		CreatedAt:        sub.CreatedAt,
	}
}
