package repository

import (
	"context"
	"errors"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TVSeriesRepository interface {
	Create(ctx context.Context, series *models.TVSeries, genres []models.Genre) error
	Update(ctx context.Context, series *models.TVSeries, genres []models.Genre) error
	FindByTMDBID(ctx context.Context, tmdbID int) (*models.TVSeries, error)
	FindAll(ctx context.Context) ([]models.TVSeries, error)
}

type tvSeriesRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewTVSeriesRepository(db *database.Database) TVSeriesRepository {
	return &tvSeriesRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *tvSeriesRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.timeout)
}

func (r *tvSeriesRepository) Create(ctx context.Context, series *models.TVSeries, genres []models.Genre) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(series).Error; err != nil {
			return err
		}
		attached, err := attachGenres(tx, series, genres, false)
		if err != nil {
			return err
		}
		series.Genres = attached
		return nil
	})
}

func (r *tvSeriesRepository) Update(ctx context.Context, series *models.TVSeries, genres []models.Genre) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(series).Error; err != nil {
			return err
		}
		attached, err := attachGenres(tx, series, genres, true)
		if err != nil {
			return err
		}
		series.Genres = attached
		return nil
	})
}

func (r *tvSeriesRepository) FindByTMDBID(ctx context.Context, tmdbID int) (*models.TVSeries, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var series models.TVSeries
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("tmdb_id = ? AND tmdb_type = ?", tmdbID, models.MediaTypeTV).
		Take(&series).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &series, nil
}

func (r *tvSeriesRepository) FindAll(ctx context.Context) ([]models.TVSeries, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	series := []models.TVSeries{}
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("tmdb_type = ?", models.MediaTypeTV).
		Order("tmdb_id").
		Find(&series).Error
	return series, err
}
