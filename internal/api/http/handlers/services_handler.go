package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/callcenter-service/internal/api/dto"
	"github.com/spec-kit/callcenter-service/internal/auth"
	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/repository"
	"github.com/spec-kit/callcenter-service/internal/service"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

const scheduledDateLayout = "2006-01-02"

// ServicesHandler manages home-service appointment endpoints.
type ServicesHandler struct {
	service *service.ServiceRequestService
}

// NewServicesHandler constructs handler.
func NewServicesHandler(requestService *service.ServiceRequestService) *ServicesHandler {
	return &ServicesHandler{service: requestService}
}

// Create POST /services.
func (h *ServicesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateServiceRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	date, err := time.Parse(scheduledDateLayout, strings.TrimSpace(req.ScheduledDate))
	if err != nil {
		return apperrors.NewValidationError("scheduled_date must be YYYY-MM-DD", nil)
	}

	request, sub, err := h.service.Create(c.Context(), principal.User.ID, service.ServiceRequestInput{
		Service:       req.Service,
		Description:   req.Description,
		ScheduledDate: date,
		ScheduledTime: req.ScheduledTime,
	})
	if err != nil {
		return err
	}

	data := fiber.Map{"service_request": serviceRequestResponse(request)}
	if sub != nil && sub.SubscriptionType == domain.SubscriptionTypePerUse {
		data["remaining_credits"] = sub.RemainingCredits
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": data})
}

// List GET /services.
func (h *ServicesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	requests, err := h.service.ListForUser(c.Context(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.ServiceRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, serviceRequestResponse(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /services/:id.
func (h *ServicesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	request, err := h.service.Get(c.Context(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceRequestResponse(request)})
}

// Update PATCH /services/:id; staff only.
func (h *ServicesHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateServiceRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	request, err := h.service.Update(c.Context(), principal.User, c.Params("id"), repository.ServiceRequestUpdate{
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": serviceRequestResponse(request)})
}

// Rate POST /services/:id/rating.
func (h *ServicesHandler) Rate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.RateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	rating, err := h.service.Rate(c.Context(), principal.User, c.Params("id"), req.Score, req.Feedback)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"id":    rating.ID,
		"score": rating.Score,
	}})
}

func serviceRequestResponse(r *domain.ServiceRequest) dto.ServiceRequestResponse {
	return dto.ServiceRequestResponse{
		ID:            r.ID,
		DisplayID:     r.DisplayID(),
		CustomerID:    r.CustomerID,
		Service:       r.Service,
		Description:   r.Description,
		ScheduledDate: r.ScheduledDate.Format(scheduledDateLayout),
		ScheduledTime: r.ScheduledTime,
		Status:        r.Status,
		AssignedTo:    r.AssignedTo,
		Reported:      r.Reported,
		CreatedAt:     r.CreatedAt,
	}
}
