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

// ReportService handles internal write-ups filed by employees. A report tied
// to a service request flags that request as reported so it is not reported
// twice.
type ReportService struct {
	reports    repository.ReportRepository
	requests   repository.ServiceRequestRepository
	dispatcher events.Dispatcher
}

// ReportDependencies bundles collaborators.
type ReportDependencies struct {
	ReportRepo  repository.ReportRepository
	RequestRepo repository.ServiceRequestRepository
	Dispatcher  events.Dispatcher
}

// ReportInput describes report creation payload.
type ReportInput struct {
	ReportType      string
	Priority        string
	RelatedID       *string
	Subject         string
	Description     string
	SuggestedAction *string
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports:    deps.ReportRepo,
		requests:   deps.RequestRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create files a report on behalf of a staff member.
func (s *ReportService) Create(ctx context.Context, employeeID string, input ReportInput) (*domain.Report, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject is required", nil)
	}
	if input.ReportType == "" {
		input.ReportType = "general"
	}
	if input.Priority == "" {
		input.Priority = "medium"
	}

	report := &domain.Report{
		EmployeeID:      employeeID,
		ReportType:      input.ReportType,
		Priority:        input.Priority,
		RelatedID:       input.RelatedID,
		Subject:         subject,
		Description:     strings.TrimSpace(input.Description),
		SuggestedAction: input.SuggestedAction,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	if input.ReportType == "service" && input.RelatedID != nil {
		if err := s.requests.MarkReported(ctx, *input.RelatedID); err != nil && err != pgx.ErrNoRows {
			return nil, err
		}
	}

	publish(ctx, s.dispatcher, events.Event{
		Type:    events.EventReportFiled,
		ActorID: employeeID,
		Payload: events.ReportFiledPayload{
			ReportID:   report.ID,
			ReportType: report.ReportType,
			Subject:    report.Subject,
		},
	})
	return report, nil
}

// ListForUser returns all reports for admins, or the caller's own for
// employees.
func (s *ReportService) ListForUser(ctx context.Context, user *domain.User) ([]domain.Report, error) {
	if user.Role == domain.UserRoleAdmin {
		return s.reports.ListAll(ctx)
	}
	return s.reports.ListByEmployee(ctx, user.ID)
}
