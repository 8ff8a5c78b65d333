package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/callcenter-service/internal/domain"
)

// RatingRepository stores customer ratings on resolved interactions.
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	Exists(ctx context.Context, userID, entityID string, entityType domain.RatingEntityType) (bool, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository instantiates repository.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	const query = `
        INSERT INTO user_ratings (user_id, entity_id, entity_type, rating, feedback)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		rating.UserID,
		rating.EntityID,
		rating.EntityType,
		rating.Score,
		rating.Feedback,
	).Scan(&rating.ID, &rating.CreatedAt)
}

func (r *ratingRepository) Exists(ctx context.Context, userID, entityID string, entityType domain.RatingEntityType) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1 FROM user_ratings
            WHERE user_id=$1 AND entity_id=$2 AND entity_type=$3
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, entityID, entityType).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
