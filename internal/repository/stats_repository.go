package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsOverview aggregates the counters shown on the admin dashboard.
type StatsOverview struct {
	Customers           int64   `json:"customers"`
	Employees           int64   `json:"employees"`
	OpenTickets         int64   `json:"open_tickets"`
	ResolvedTickets     int64   `json:"resolved_tickets"`
	PendingServices     int64   `json:"pending_services"`
	ActiveSubscriptions int64   `json:"active_subscriptions"`
	OpenComplaints      int64   `json:"open_complaints"`
	Revenue             float64 `json:"revenue"`
}

// StatsRepository computes aggregate dashboard counters.
type StatsRepository interface {
	Overview(ctx context.Context) (*StatsOverview, error)
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository instantiates repository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Overview(ctx context.Context) (*StatsOverview, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM users WHERE role='customer'),
            (SELECT COUNT(*) FROM users WHERE role='employee'),
            (SELECT COUNT(*) FROM tickets WHERE status NOT IN ('resolved','closed') AND is_archived=false),
            (SELECT COUNT(*) FROM tickets WHERE status IN ('resolved','closed')),
            (SELECT COUNT(*) FROM service_requests WHERE status='pending'),
            (SELECT COUNT(*) FROM subscriptions WHERE is_active=true),
            (SELECT COUNT(*) FROM complaints WHERE status='open'),
            (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE status='completed')`

	var stats StatsOverview
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.Customers,
		&stats.Employees,
		&stats.OpenTickets,
		&stats.ResolvedTickets,
		&stats.PendingServices,
		&stats.ActiveSubscriptions,
		&stats.OpenComplaints,
		&stats.Revenue,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}
