package services

import (
	"context"

	"movie-catalog/internal/models"

	"github.com/sirupsen/logrus"
)

// MediaInput holds every field of a movie or TV series on create.
type MediaInput struct {
	TMDBID      int
	Title       string
	Description string
	ReleaseDate string
	PosterURL   *string
	VoteAverage *float64
	Genres      []models.Genre
}

// MediaPatch holds the fields supplied on update. Nil scalars are left alone;
// Genres always replaces the current set, so nil clears it.
type MediaPatch struct {
	Title       *string
	Description *string
	ReleaseDate *string
	PosterURL   *string
	VoteAverage *float64
	Genres      []models.Genre
}

// PosterStore removes uploaded poster objects that are no longer referenced.
type PosterStore interface {
	OwnsURL(url string) bool
	DeleteFile(ctx context.Context, objectPath string) error
}

func applyPatch(patch MediaPatch, title, description, releaseDate *string, posterURL **string, voteAverage **float64) {
	if patch.Title != nil {
		*title = *patch.Title
	}
	if patch.Description != nil {
		*description = *patch.Description
	}
	if patch.ReleaseDate != nil {
		*releaseDate = *patch.ReleaseDate
	}
	if patch.PosterURL != nil {
		*posterURL = patch.PosterURL
	}
	if patch.VoteAverage != nil {
		*voteAverage = patch.VoteAverage
	}
}

// cleanupReplacedPoster deletes the previous poster when it lived in our bucket and was replaced.
func cleanupReplacedPoster(ctx context.Context, store PosterStore, logger *logrus.Logger, previous, current *string) {
	if store == nil || previous == nil || *previous == "" {
		return
	}
	if current != nil && *current == *previous {
		return
	}
	if !store.OwnsURL(*previous) {
		return
	}
	if err := store.DeleteFile(ctx, *previous); err != nil {
		logger.WithError(err).WithField("poster_url", *previous).Warn("Failed to delete replaced poster")
	}
}
