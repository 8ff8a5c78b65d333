package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// ComplaintRepository stores customer complaints.
type ComplaintRepository interface {
	Create(ctx context.Context, c *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

const complaintColumns = `id, customer_id, subject, description, status, related_ticket, created_at`

func (r *complaintRepository) Create(ctx context.Context, c *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (customer_id, subject, description, status, related_ticket)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		c.CustomerID,
		c.Subject,
		c.Description,
		c.Status,
		c.RelatedTicket,
	).Scan(&c.ID, &c.CreatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	var c domain.Complaint
	if err := r.pool.QueryRow(ctx, query, id).Scan(complaintFields(&c)...); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *complaintRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Complaint, error) {
	const query = `
        SELECT ` + complaintColumns + ` FROM complaints
        WHERE customer_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + ` FROM complaints ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanComplaints(rows)
}

func (r *complaintRepository) UpdateStatus(ctx context.Context, id string, status domain.ComplaintStatus) (*domain.Complaint, error) {
	const query = `
        UPDATE complaints SET status=$1 WHERE id=$2
        RETURNING ` + complaintColumns
	var c domain.Complaint
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(complaintFields(&c)...); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var c domain.Complaint
		if err := rows.Scan(complaintFields(&c)...); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func complaintFields(c *domain.Complaint) []any {
	return []any{
		&c.ID,
		&c.CustomerID,
		&c.Subject,
		&c.Description,
		&c.Status,
		&c.RelatedTicket,
		&c.CreatedAt,
	}
}
