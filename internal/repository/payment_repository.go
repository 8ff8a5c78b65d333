package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// PaymentRepository stores payment records backing subscription purchases.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Payment, error)
	ListAll(ctx context.Context) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, user_id, service_key, subscription_type, amount, payment_method,
               card_number, status, created_at`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	const query = `
        INSERT INTO payments (user_id, service_key, subscription_type, amount, payment_method, card_number, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		p.UserID,
		p.ServiceKey,
		p.SubscriptionType,
		p.Amount,
		p.PaymentMethod,
		p.CardNumber,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	var p domain.Payment
	if err := r.pool.QueryRow(ctx, query, id).Scan(paymentFields(&p)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	const query = `
        SELECT ` + paymentColumns + ` FROM payments
        WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) ListAll(ctx context.Context) ([]domain.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Payment, error) {
	const query = `
        UPDATE payments SET status=$1 WHERE id=$2
        RETURNING ` + paymentColumns
	var p domain.Payment
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(paymentFields(&p)...); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var result []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(paymentFields(&p)...); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func paymentFields(p *domain.Payment) []any {
	return []any{
		&p.ID,
		&p.UserID,
		&p.ServiceKey,
		&p.SubscriptionType,
		&p.Amount,
		&p.PaymentMethod,
		&p.CardNumber,
		&p.Status,
		&p.CreatedAt,
	}
}
