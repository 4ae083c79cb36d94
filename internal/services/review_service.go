package services

import (
	"context"
	"fmt"
	"strings"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/sirupsen/logrus"
)

type ReviewInput struct {
	MovieID    *int
	TVSeriesID *int
	Content    string
}

type ReviewService interface {
	// CreateReview always records author as the review's user.
	CreateReview(ctx context.Context, author *models.User, input ReviewInput) (*models.Review, error)
	ListReviews(ctx context.Context, tmdbID int, mediaType string) ([]models.Review, error)
}

type reviewService struct {
	repo     repository.ReviewRepository
	movies   repository.MovieRepository
	tvSeries repository.TVSeriesRepository
	logger   *logrus.Logger
}

func NewReviewService(repo repository.ReviewRepository, movies repository.MovieRepository, tvSeries repository.TVSeriesRepository, logger *logrus.Logger) ReviewService {
	return &reviewService{
		repo:     repo,
		movies:   movies,
		tvSeries: tvSeries,
		logger:   logger,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, author *models.User, input ReviewInput) (*models.Review, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, NewValidationError("content", "Content cannot be empty.")
	}

	switch {
	case input.MovieID == nil && input.TVSeriesID == nil:
		return nil, NewValidationError("non_field_errors", "A review needs either a movie or a tv_series.")
	case input.MovieID != nil && input.TVSeriesID != nil:
		return nil, NewValidationError("non_field_errors", "A review cannot target both a movie and a tv_series.")
	}

	if input.MovieID != nil {
		movie, err := s.movies.FindByTMDBID(ctx, *input.MovieID)
		if err != nil {
			return nil, fmt.Errorf("failed to load movie: %w", err)
		}
		if movie == nil {
			return nil, NewValidationError("movie", fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(*input.MovieID)))
		}
	}
	if input.TVSeriesID != nil {
		series, err := s.tvSeries.FindByTMDBID(ctx, *input.TVSeriesID)
		if err != nil {
			return nil, fmt.Errorf("failed to load tv series: %w", err)
		}
		if series == nil {
			return nil, NewValidationError("tv_series", fmt.Sprintf("Invalid pk %q - object does not exist.", fmt.Sprint(*input.TVSeriesID)))
		}
	}

	review := &models.Review{
		MovieID:    input.MovieID,
		TVSeriesID: input.TVSeriesID,
		UserID:     author.ID,
		Content:    content,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	review.User = author

	s.logger.WithFields(logrus.Fields{
		"review_id": review.ID,
		"user_id":   author.ID,
	}).Info("Review created")

	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, tmdbID int, mediaType string) ([]models.Review, error) {
	if models.ParseMediaType(mediaType) == models.MediaTypeTV {
		return s.repo.FindByTVSeries(ctx, tmdbID)
	}
	return s.repo.FindByMovie(ctx, tmdbID)
}
