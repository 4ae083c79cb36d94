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

type GenreRepository interface {
	FindByID(ctx context.Context, tmdbGenreID int) (*models.Genre, error)
	// FindOrCreate returns the existing row untouched, or inserts one. created reports which.
	FindOrCreate(ctx context.Context, tmdbGenreID int, name string) (genre *models.Genre, created bool, err error)
	FindAll(ctx context.Context) ([]models.Genre, error)
}

type genreRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewGenreRepository(db *database.Database) GenreRepository {
	return &genreRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *genreRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.timeout)
}

func (r *genreRepository) FindByID(ctx context.Context, tmdbGenreID int) (*models.Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var genre models.Genre
	err := r.db.WithContext(ctx).Where("tmdb_genre_id = ?", tmdbGenreID).Take(&genre).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) FindOrCreate(ctx context.Context, tmdbGenreID int, name string) (*models.Genre, bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return findOrCreateGenre(r.db.WithContext(ctx), tmdbGenreID, name)
}

func (r *genreRepository) FindAll(ctx context.Context) ([]models.Genre, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	genres := []models.Genre{}
	err := r.db.WithContext(ctx).Order("tmdb_genre_id").Find(&genres).Error
	return genres, err
}

// findOrCreateGenre runs on db, which may be a transaction.
func findOrCreateGenre(db *gorm.DB, tmdbGenreID int, name string) (*models.Genre, bool, error) {
	var genre models.Genre
	err := db.Where("tmdb_genre_id = ?", tmdbGenreID).Take(&genre).Error
	if err == nil {
		return &genre, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	genre = models.Genre{TMDBGenreID: tmdbGenreID, Name: name}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tmdb_genre_id"}},
		DoNothing: true,
	}).Create(&genre)
	if result.Error != nil {
		return nil, false, result.Error
	}

	// Lost a race with a concurrent insert of the same id; the first name wins.
	if result.RowsAffected == 0 {
		if err := db.Where("tmdb_genre_id = ?", tmdbGenreID).Take(&genre).Error; err != nil {
			return nil, false, err
		}
		return &genre, false, nil
	}

	return &genre, true, nil
}
