package repository

import (
	"context"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByMovie(ctx context.Context, tmdbID int) ([]models.Review, error)
	FindByTVSeries(ctx context.Context, tmdbID int) ([]models.Review, error)
}

type reviewRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewReviewRepository(db *database.Database) ReviewRepository {
	return &reviewRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *reviewRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.timeout)
}

func (r *reviewRepository) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Omit("User", "Movie", "TVSeries").Create(review).Error
}

func (r *reviewRepository) FindByMovie(ctx context.Context, tmdbID int) ([]models.Review, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("movie_id = ?", tmdbID).
		Order("id").
		Find(&reviews).Error
	return reviews, err
}

func (r *reviewRepository) FindByTVSeries(ctx context.Context, tmdbID int) ([]models.Review, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	reviews := []models.Review{}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("tv_series_id = ?", tmdbID).
		Order("id").
		Find(&reviews).Error
	return reviews, err
}
