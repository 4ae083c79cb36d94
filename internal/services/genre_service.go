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

type GenreService interface {
	// GetOrCreate never overwrites the name of an existing genre.
	GetOrCreate(ctx context.Context, tmdbGenreID int, name string) (*models.Genre, bool, error)
	GetGenre(ctx context.Context, tmdbGenreID int) (*models.Genre, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
}

type genreService struct {
	repo   repository.GenreRepository
	logger *logrus.Logger
}

func NewGenreService(repo repository.GenreRepository, logger *logrus.Logger) GenreService {
	return &genreService{
		repo:   repo,
		logger: logger,
	}
}

func (s *genreService) GetOrCreate(ctx context.Context, tmdbGenreID int, name string) (*models.Genre, bool, error) {
	genre, created, err := s.repo.FindOrCreate(ctx, tmdbGenreID, name)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, NewValidationError("name", "genre with this name already exists.")
		}
		return nil, false, fmt.Errorf("failed to get or create genre: %w", err)
	}

	if created {
		s.logger.WithFields(logrus.Fields{
			"tmdb_genre_id": genre.TMDBGenreID,
			"name":          genre.Name,
		}).Info("Genre created")
	}
	return genre, created, nil
}

func (s *genreService) GetGenre(ctx context.Context, tmdbGenreID int) (*models.Genre, error) {
	genre, err := s.repo.FindByID(ctx, tmdbGenreID)
	if err != nil {
		return nil, fmt.Errorf("failed to load genre: %w", err)
	}
	if genre == nil {
		return nil, fmt.Errorf("genre %d: %w", tmdbGenreID, ErrNotFound)
	}
	return genre, nil
}

func (s *genreService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.repo.FindAll(ctx)
}
