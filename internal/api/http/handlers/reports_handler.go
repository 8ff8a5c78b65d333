package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/callcenter-service/internal/api/dto"
	"github.com/spec-kit/callcenter-service/internal/auth"
	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/service"
	apperrors "github.com/spec-kit/callcenter-service/pkg/util"
)

// ReportsHandler manages internal staff reports.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Create POST /reports; staff only.
func (h *ReportsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	report, err := h.service.Create(c.Context(), principal.User.ID, service.ReportInput{
		ReportType:      req.ReportType,
		Priority:        req.Priority,
		RelatedID:       req.RelatedID,
		Subject:         req.Subject,
		Description:     req.Description,
		SuggestedAction: req.SuggestedAction,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reportResponse(report)})
}

// List GET /reports; staff only.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	reports, err := h.service.ListForUser(c.Context(), principal.User)
	if err != nil {
		return err
	}
	items := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, reportResponse(&reports[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func reportResponse(r *domain.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		ReportType:      r.ReportType,
		Priority:        r.Priority,
		RelatedID:       r.RelatedID,
		Subject:         r.Subject,
		Description:     r.Description,
		SuggestedAction: r.SuggestedAction,
		CreatedAt:       r.CreatedAt,
	}
}
