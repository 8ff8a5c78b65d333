package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/callcenter-service/internal/domain"
	"github.com/spec-kit/callcenter-service/internal/entitlement"
)

// SubscriptionRepository encapsulates subscription persistence. It implements
// entitlement.Store for the engine and adds the listing the API needs.
type SubscriptionRepository interface {
	entitlement.Store
	ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository returns a Postgres-backed implementation.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, user_id, service_key, subscription_type, remaining_credits,
               expires_at, is_active, is_global, amount, created_at, updated_at`

func (r *subscriptionRepository) ListByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	const query = `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions WHERE user_id=$1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

func (r *subscriptionRepository) ActiveByUser(ctx context.Context, userID string) ([]domain.Subscription, error) {
	const query = `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions WHERE user_id=$1 AND is_active=true
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

// Replace supersedes the prior active subscription of the same scope and
// inserts the new row inside one transaction, so the "at most one active row
// per scope" invariant holds at every observable point.
func (r *subscriptionRepository) Replace(ctx context.Context, sub *domain.Subscription) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if sub.IsGlobal {
		const deactivate = `
            UPDATE subscriptions SET is_active=false, updated_at=NOW()
            WHERE user_id=$1 AND is_global=true AND is_active=true`
		if _, err := tx.Exec(ctx, deactivate, sub.UserID); err != nil {
			return err
		}
	} else {
		const deactivate = `
            UPDATE subscriptions SET is_active=false, updated_at=NOW()
            WHERE user_id=$1 AND service_key=$2 AND is_active=true`
		if _, err := tx.Exec(ctx, deactivate, sub.UserID, sub.ServiceKey); err != nil {
			return err
		}
	}

	const insert = `
        INSERT INTO subscriptions (user_id, service_key, subscription_type, remaining_credits,
                                   expires_at, is_active, is_global, amount)
        VALUES ($1,$2,$3,$4,$5,true,$6,$7)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insert,
		sub.UserID,
		nullableKey(sub.ServiceKey),
		sub.SubscriptionType,
		sub.RemainingCredits,
		sub.ExpiresAt,
		sub.IsGlobal,
		sub.Amount,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ConsumeCredit is the one write that must never race: the balance check, the
// decrement and the exhaustion deactivation are a single conditional UPDATE,
// so two concurrent consumptions of a balance of 1 cannot both succeed.
// Premium and global rows are excluded; they are never charged.
func (r *subscriptionRepository) ConsumeCredit(ctx context.Context, userID, serviceKey string) (*domain.Subscription, error) {
	const query = `
        UPDATE subscriptions
        SET remaining_credits = remaining_credits - 1,
            is_active = (remaining_credits - 1) > 0,
            updated_at = NOW()
        WHERE user_id=$1 AND service_key=$2
          AND subscription_type='per-use'
          AND is_active=true AND is_global=false
          AND service_key <> 'premium-monitoring'
          AND remaining_credits > 0
        RETURNING ` + subscriptionColumns

	var sub domain.Subscription
	var key *string
	if err := r.pool.QueryRow(ctx, query, userID, serviceKey).Scan(
		&sub.ID,
		&sub.UserID,
		&key,
		&sub.SubscriptionType,
		&sub.RemainingCredits,
		&sub.ExpiresAt,
		&sub.IsActive,
		&sub.IsGlobal,
		&sub.Amount,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, entitlement.ErrInsufficientCredit
		}
		return nil, err
	}
	if key != nil {
		sub.ServiceKey = *key
	}
	return &sub, nil
}

func scanSubscriptions(rows pgx.Rows) ([]domain.Subscription, error) {
	var result []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		var key *string
		if err := rows.Scan(
			&sub.ID,
			&sub.UserID,
			&key,
			&sub.SubscriptionType,
			&sub.RemainingCredits,
			&sub.ExpiresAt,
			&sub.IsActive,
			&sub.IsGlobal,
			&sub.Amount,
			&sub.CreatedAt,
			&sub.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if key != nil {
			sub.ServiceKey = *key
		}
		result = append(result, sub)
	}
	return result, rows.Err()
}

// nullableKey maps the empty key of global subscriptions to SQL NULL.
func nullableKey(key string) *string {
	if key == "" {
		return nil
	}
	return &key
}
