package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// ServiceRequestUpdate carries mutable triage fields; nil leaves a field untouched.
type ServiceRequestUpdate struct {
	Status     *domain.ServiceRequestStatus
	AssignedTo *string
}

// ServiceRequestRepository encapsulates home-service appointment persistence.
type ServiceRequestRepository interface {
	Create(ctx context.Context, req *domain.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.ServiceRequest, error)
	ListAll(ctx context.Context) ([]domain.ServiceRequest, error)
	Update(ctx context.Context, id string, update ServiceRequestUpdate) (*domain.ServiceRequest, error)
	MarkReported(ctx context.Context, id string) error
}

type serviceRequestRepository struct {
	pool *pgxpool.Pool
}

// NewServiceRequestRepository instantiates repository.
func NewServiceRequestRepository(pool *pgxpool.Pool) ServiceRequestRepository {
	return &serviceRequestRepository{pool: pool}
}

const serviceRequestColumns = `id, request_number, customer_id, service, description, scheduled_date,
               scheduled_time, status, assigned_to, reported, created_at, updated_at`

func (r *serviceRequestRepository) Create(ctx context.Context, req *domain.ServiceRequest) error {
	const query = `
        INSERT INTO service_requests (customer_id, service, description, scheduled_date, scheduled_time, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, request_number, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.CustomerID,
		req.Service,
		req.Description,
		req.ScheduledDate,
		req.ScheduledTime,
		req.Status,
	).Scan(&req.ID, &req.RequestNumber, &req.CreatedAt, &req.UpdatedAt)
}

func (r *serviceRequestRepository) GetByID(ctx context.Context, id string) (*domain.ServiceRequest, error) {
	const query = `SELECT ` + serviceRequestColumns + ` FROM service_requests WHERE id=$1`
	var req domain.ServiceRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(serviceRequestFields(&req)...); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *serviceRequestRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.ServiceRequest, error) {
	const query = `
        SELECT ` + serviceRequestColumns + ` FROM service_requests
        WHERE customer_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanServiceRequests(rows)
}

func (r *serviceRequestRepository) ListAll(ctx context.Context) ([]domain.ServiceRequest, error) {
	const query = `SELECT ` + serviceRequestColumns + ` FROM service_requests ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanServiceRequests(rows)
}

func (r *serviceRequestRepository) Update(ctx context.Context, id string, update ServiceRequestUpdate) (*domain.ServiceRequest, error) {
	const query = `
        UPDATE service_requests
        SET status = COALESCE($1, status),
            assigned_to = COALESCE($2, assigned_to),
            updated_at = NOW()
        WHERE id=$3
        RETURNING ` + serviceRequestColumns
	var req domain.ServiceRequest
	if err := r.pool.QueryRow(ctx, query,
		update.Status,
		update.AssignedTo,
		id,
	).Scan(serviceRequestFields(&req)...); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *serviceRequestRepository) MarkReported(ctx context.Context, id string) error {
	const query = `UPDATE service_requests SET reported=true, updated_at=NOW() WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanServiceRequests(rows pgx.Rows) ([]domain.ServiceRequest, error) {
	var result []domain.ServiceRequest
	for rows.Next() {
		var req domain.ServiceRequest
		if err := rows.Scan(serviceRequestFields(&req)...); err != nil {
			return nil, err
		}
		result = append(result, req)
	}
	return result, rows.Err()
}

func serviceRequestFields(s *domain.ServiceRequest) []any {
	return []any{
		&s.ID,
		&s.RequestNumber,
		&s.CustomerID,
		&s.Service,
		&s.Description,
		&s.ScheduledDate,
		&s.ScheduledTime,
		&s.Status,
		&s.AssignedTo,
		&s.Reported,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
}
