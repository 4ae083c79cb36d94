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

type MovieRepository interface {
	// Create inserts the movie and attaches the given genres, creating missing ones.
	Create(ctx context.Context, movie *models.Movie, genres []models.Genre) error
	// Update saves scalar fields and replaces the whole genre set.
	Update(ctx context.Context, movie *models.Movie, genres []models.Genre) error
	FindByTMDBID(ctx context.Context, tmdbID int) (*models.Movie, error)
	FindAll(ctx context.Context) ([]models.Movie, error)
}

type movieRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewMovieRepository(db *database.Database) MovieRepository {
	return &movieRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *movieRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.timeout)
}

func (r *movieRepository) Create(ctx context.Context, movie *models.Movie, genres []models.Genre) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(movie).Error; err != nil {
			return err
		}
		attached, err := attachGenres(tx, movie, genres, false)
		if err != nil {
			return err
		}
		movie.Genres = attached
		return nil
	})
}

func (r *movieRepository) Update(ctx context.Context, movie *models.Movie, genres []models.Genre) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(movie).Error; err != nil {
			return err
		}
		attached, err := attachGenres(tx, movie, genres, true)
		if err != nil {
			return err
		}
		movie.Genres = attached
		return nil
	})
}

func (r *movieRepository) FindByTMDBID(ctx context.Context, tmdbID int) (*models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var movie models.Movie
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("tmdb_id = ? AND tmdb_type = ?", tmdbID, models.MediaTypeMovie).
		Take(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) FindAll(ctx context.Context) ([]models.Movie, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	movies := []models.Movie{}
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("tmdb_type = ?", models.MediaTypeMovie).
		Order("tmdb_id").
		Find(&movies).Error
	return movies, err
}

// attachGenres resolves each descriptor through findOrCreateGenre and links the
// result to owner's Genres association. With replace set, previous links are dropped,
// so an empty descriptor list clears the set.
func attachGenres(tx *gorm.DB, owner interface{}, descriptors []models.Genre, replace bool) ([]models.Genre, error) {
	genres := make([]models.Genre, 0, len(descriptors))
	seen := make(map[int]bool, len(descriptors))
	for _, d := range descriptors {
		if seen[d.TMDBGenreID] {
			continue
		}
		seen[d.TMDBGenreID] = true

		genre, _, err := findOrCreateGenre(tx, d.TMDBGenreID, d.Name)
		if err != nil {
			return nil, err
		}
		genres = append(genres, *genre)
	}

	association := tx.Model(owner).Association("Genres")
	switch {
	case len(genres) == 0 && replace:
		if err := association.Clear(); err != nil {
			return nil, err
		}
	case len(genres) == 0:
	case replace:
		if err := association.Replace(genres); err != nil {
			return nil, err
		}
	default:
		if err := association.Append(genres); err != nil {
			return nil, err
		}
	}

	return genres, nil
}
