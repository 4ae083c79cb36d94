package services

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type MovieService interface {
	CreateMovie(ctx context.Context, input MediaInput) (*models.Movie, error)
	UpdateMovie(ctx context.Context, tmdbID int, patch MediaPatch) (*models.Movie, error)
	GetMovie(ctx context.Context, tmdbID int) (*models.Movie, error)
	ListMovies(ctx context.Context) ([]models.Movie, error)
}

type movieService struct {
	repo    repository.MovieRepository
	posters PosterStore
	logger  *logrus.Logger
}

// NewMovieService accepts a nil posters store when uploads are disabled.
func NewMovieService(repo repository.MovieRepository, posters PosterStore, logger *logrus.Logger) MovieService {
	return &movieService{
		repo:    repo,
		posters: posters,
		logger:  logger,
	}
}

func (s *movieService) CreateMovie(ctx context.Context, input MediaInput) (*models.Movie, error) {
	existing, err := s.repo.FindByTMDBID(ctx, input.TMDBID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing movie: %w", err)
	}
	if existing != nil {
		return nil, NewValidationError("tmdb_id", "movie with this tmdb id already exists.")
	}

	movie := &models.Movie{
		TMDBID:      input.TMDBID,
		Title:       input.Title,
		Description: input.Description,
		ReleaseDate: input.ReleaseDate,
		PosterURL:   input.PosterURL,
		VoteAverage: input.VoteAverage,
	}
	if err := s.repo.Create(ctx, movie, input.Genres); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if raced, _ := s.repo.FindByTMDBID(ctx, input.TMDBID); raced != nil {
				return nil, NewValidationError("tmdb_id", "movie with this tmdb id already exists.")
			}
			return nil, NewValidationError("genres", "genre name already used by another genre id.")
		}
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"tmdb_id": movie.TMDBID,
		"genres":  len(movie.Genres),
	}).Info("Movie created")

	return movie, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, tmdbID int, patch MediaPatch) (*models.Movie, error) {
	movie, err := s.GetMovie(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	previousPoster := movie.PosterURL

	applyPatch(patch, &movie.Title, &movie.Description, &movie.ReleaseDate, &movie.PosterURL, &movie.VoteAverage)

	if err := s.repo.Update(ctx, movie, patch.Genres); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("genres", "genre name already used by another genre id.")
		}
		return nil, fmt.Errorf("failed to update movie: %w", err)
	}

	cleanupReplacedPoster(ctx, s.posters, s.logger, previousPoster, movie.PosterURL)

	return movie, nil
}

func (s *movieService) GetMovie(ctx context.Context, tmdbID int) (*models.Movie, error) {
	movie, err := s.repo.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to load movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie %d: %w", tmdbID, ErrNotFound)
	}
	return movie, nil
}

func (s *movieService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	return s.repo.FindAll(ctx)
}
