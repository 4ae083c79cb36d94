package services

import (
	"context"
	"errors"
	"fmt"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/sirupsen/logrus"
)

// WatchlistResult is the outcome of a membership change. None of them is a failure.
type WatchlistResult string

const (
	ResultAdded          WatchlistResult = "added"
	ResultAlreadyPresent WatchlistResult = "already_present"
	ResultRemoved        WatchlistResult = "removed"
	ResultNotInWatchlist WatchlistResult = "not_in_watchlist"
)

type WatchlistService interface {
	ListWatchlists(ctx context.Context, userID uint) ([]models.Watchlist, error)
	Add(ctx context.Context, userID uint, tmdbID int, mediaType string) (WatchlistResult, error)
	Remove(ctx context.Context, userID uint, tmdbID int, mediaType string) (WatchlistResult, error)
}

type watchlistService struct {
	repo     repository.WatchlistRepository
	movies   repository.MovieRepository
	tvSeries repository.TVSeriesRepository
	logger   *logrus.Logger
}

func NewWatchlistService(repo repository.WatchlistRepository, movies repository.MovieRepository, tvSeries repository.TVSeriesRepository, logger *logrus.Logger) WatchlistService {
	return &watchlistService{
		repo:     repo,
		movies:   movies,
		tvSeries: tvSeries,
		logger:   logger,
	}
}

func (s *watchlistService) ListWatchlists(ctx context.Context, userID uint) ([]models.Watchlist, error) {
	return s.repo.FindByUser(ctx, userID)
}

// resolveTarget checks that the item exists under the given media type.
func (s *watchlistService) resolveTarget(ctx context.Context, tmdbID int, mediaType string) error {
	if mediaType == models.MediaTypeTV {
		series, err := s.tvSeries.FindByTMDBID(ctx, tmdbID)
		if err != nil {
			return fmt.Errorf("failed to load tv series: %w", err)
		}
		if series == nil {
			return fmt.Errorf("tv series %d: %w", tmdbID, ErrNotFound)
		}
		return nil
	}

	movie, err := s.movies.FindByTMDBID(ctx, tmdbID)
	if err != nil {
		return fmt.Errorf("failed to load movie: %w", err)
	}
	if movie == nil {
		return fmt.Errorf("movie %d: %w", tmdbID, ErrNotFound)
	}
	return nil
}

func (s *watchlistService) Add(ctx context.Context, userID uint, tmdbID int, mediaType string) (WatchlistResult, error) {
	mediaType = models.ParseMediaType(mediaType)
	if err := s.resolveTarget(ctx, tmdbID, mediaType); err != nil {
		return "", err
	}

	added, err := s.repo.AddMember(ctx, userID, mediaType, tmdbID)
	if err != nil {
		return "", fmt.Errorf("failed to add to watchlist: %w", err)
	}
	if !added {
		return ResultAlreadyPresent, nil
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"tmdb_id":    tmdbID,
		"media_type": mediaType,
	}).Debug("Watchlist item added")

	return ResultAdded, nil
}

func (s *watchlistService) Remove(ctx context.Context, userID uint, tmdbID int, mediaType string) (WatchlistResult, error) {
	mediaType = models.ParseMediaType(mediaType)
	if err := s.resolveTarget(ctx, tmdbID, mediaType); err != nil {
		return "", err
	}

	removed, err := s.repo.RemoveMember(ctx, userID, mediaType, tmdbID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrWatchlistNotFound
		}
		return "", fmt.Errorf("failed to remove from watchlist: %w", err)
	}
	if !removed {
		return ResultNotInWatchlist, nil
	}
	return ResultRemoved, nil
}
