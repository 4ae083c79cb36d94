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

type TVSeriesService interface {
	CreateSeries(ctx context.Context, input MediaInput) (*models.TVSeries, error)
	UpdateSeries(ctx context.Context, tmdbID int, patch MediaPatch) (*models.TVSeries, error)
	GetSeries(ctx context.Context, tmdbID int) (*models.TVSeries, error)
	ListSeries(ctx context.Context) ([]models.TVSeries, error)
}

type tvSeriesService struct {
	repo    repository.TVSeriesRepository
	posters PosterStore
	logger  *logrus.Logger
}

func NewTVSeriesService(repo repository.TVSeriesRepository, posters PosterStore, logger *logrus.Logger) TVSeriesService {
	return &tvSeriesService{
		repo:    repo,
		posters: posters,
		logger:  logger,
	}
}

func (s *tvSeriesService) CreateSeries(ctx context.Context, input MediaInput) (*models.TVSeries, error) {
	existing, err := s.repo.FindByTMDBID(ctx, input.TMDBID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing tv series: %w", err)
	}
	if existing != nil {
		return nil, NewValidationError("tmdb_id", "tv series with this tmdb id already exists.")
	}

	series := &models.TVSeries{
		TMDBID:      input.TMDBID,
		Title:       input.Title,
		Description: input.Description,
		ReleaseDate: input.ReleaseDate,
		PosterURL:   input.PosterURL,
		VoteAverage: input.VoteAverage,
	}
	if err := s.repo.Create(ctx, series, input.Genres); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if raced, _ := s.repo.FindByTMDBID(ctx, input.TMDBID); raced != nil {
				return nil, NewValidationError("tmdb_id", "tv series with this tmdb id already exists.")
			}
			return nil, NewValidationError("genres", "genre name already used by another genre id.")
		}
		return nil, fmt.Errorf("failed to create tv series: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"tmdb_id": series.TMDBID,
		"genres":  len(series.Genres),
	}).Info("TV series created")

	return series, nil
}

func (s *tvSeriesService) UpdateSeries(ctx context.Context, tmdbID int, patch MediaPatch) (*models.TVSeries, error) {
	series, err := s.GetSeries(ctx, tmdbID)
	if err != nil {
		return nil, err
	}
	previousPoster := series.PosterURL

	applyPatch(patch, &series.Title, &series.Description, &series.ReleaseDate, &series.PosterURL, &series.VoteAverage)

	if err := s.repo.Update(ctx, series, patch.Genres); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("genres", "genre name already used by another genre id.")
		}
		return nil, fmt.Errorf("failed to update tv series: %w", err)
	}

	cleanupReplacedPoster(ctx, s.posters, s.logger, previousPoster, series.PosterURL)

	return series, nil
}

func (s *tvSeriesService) GetSeries(ctx context.Context, tmdbID int) (*models.TVSeries, error) {
	series, err := s.repo.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tv series: %w", err)
	}
	if series == nil {
		return nil, fmt.Errorf("tv series %d: %w", tmdbID, ErrNotFound)
	}
	return series, nil
}

func (s *tvSeriesService) ListSeries(ctx context.Context) ([]models.TVSeries, error) {
	return s.repo.FindAll(ctx)
}
