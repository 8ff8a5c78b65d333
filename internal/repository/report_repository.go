package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// ReportRepository stores internal employee reports.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	ListAll(ctx context.Context) ([]domain.Report, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]domain.Report, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, employee_id, report_type, priority, related_id, subject, description,
               suggested_action, created_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (employee_id, report_type, priority, related_id, subject, description, suggested_action)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		report.EmployeeID,
		report.ReportType,
		report.Priority,
		report.RelatedID,
		report.Subject,
		report.Description,
		report.SuggestedAction,
	).Scan(&report.ID, &report.CreatedAt)
}

func (r *reportRepository) ListAll(ctx context.Context) ([]domain.Report, error) {
	const query = `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) ListByEmployee(ctx context.Context, employeeID string) ([]domain.Report, error) {
	const query = `
        SELECT ` + reportColumns + ` FROM reports
        WHERE employee_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(
			&report.ID,
			&report.EmployeeID,
			&report.ReportType,
			&report.Priority,
			&report.RelatedID,
			&report.Subject,
			&report.Description,
			&report.SuggestedAction,
			&report.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
