package handlers

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"movie-catalog/internal/models"
	"movie-catalog/internal/services"
)

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=254" example:"alice@example.com"`
	Username string `json:"username" validate:"required,max=150" example:"alice"`
	Password string `json:"password" validate:"required,min=8,max=128" example:"s3cret-pass"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"alice@example.com"`
	Password string `json:"password" validate:"required" example:"s3cret-pass"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// LogoutRequest takes the token under refresh_token. The refresh key used by
// token refresh is also read so either body works.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" example:"eyJhbGciOi..."`
	Refresh      string `json:"refresh"`
}

func (r *LogoutRequest) token() string {
	if r.RefreshToken != "" {
		return r.RefreshToken
	}
	return r.Refresh
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}

type UserResponse struct {
	ID       uint   `json:"id" example:"1"`
	Email    string `json:"email" example:"alice@example.com"`
	Username string `json:"username" example:"alice"`
}

type GenreRequest struct {
	TMDBGenreID int    `json:"tmdb_genre_id" validate:"required,gt=0" example:"28"`
	Name        string `json:"name" validate:"required,max=100" example:"Action"`
}

// MediaRequest creates a movie or TV series.
type MediaRequest struct {
	TMDBID      int            `json:"tmdb_id" validate:"required,gt=0" example:"550"`
	Title       string         `json:"title" validate:"required,notblank,max=255" example:"Fight Club"`
	Description string         `json:"description" validate:"required,notblank" example:"An insomniac office worker..."`
	ReleaseDate string         `json:"release_date" validate:"required,datetime=2006-01-02" example:"1999-10-15"`
	PosterURL   *string        `json:"poster_url" validate:"omitempty,url,max=500"`
	VoteAverage *float64       `json:"vote_average" validate:"omitempty,gte=0,lte=10" example:"8.4"`
	Genres      []GenreRequest `json:"genres" validate:"dive"`
}

// MediaUpdateRequest changes only the supplied scalars. The genre set is always
// replaced, so omitting genres clears them. A supplied title, description or
// release date may not be blank.
type MediaUpdateRequest struct {
	Title       *string        `json:"title" validate:"omitnil,notblank,max=255"`
	Description *string        `json:"description" validate:"omitnil,notblank"`
	ReleaseDate *string        `json:"release_date" validate:"omitnil,datetime=2006-01-02"`
	PosterURL   *string        `json:"poster_url" validate:"omitempty,url,max=500"`
	VoteAverage *float64       `json:"vote_average" validate:"omitempty,gte=0,lte=10"`
	Genres      []GenreRequest `json:"genres" validate:"dive"`
}

func toGenres(reqs []GenreRequest) []models.Genre {
	genres := make([]models.Genre, 0, len(reqs))
	for _, g := range reqs {
		genres = append(genres, models.Genre{TMDBGenreID: g.TMDBGenreID, Name: g.Name})
	}
	return genres
}

func (r *MediaRequest) toInput() services.MediaInput {
	return services.MediaInput{
		TMDBID:      r.TMDBID,
		Title:       r.Title,
		Description: r.Description,
		ReleaseDate: r.ReleaseDate,
		PosterURL:   r.PosterURL,
		VoteAverage: r.VoteAverage,
		Genres:      toGenres(r.Genres),
	}
}

func (r *MediaUpdateRequest) toPatch() services.MediaPatch {
	return services.MediaPatch{
		Title:       r.Title,
		Description: r.Description,
		ReleaseDate: r.ReleaseDate,
		PosterURL:   r.PosterURL,
		VoteAverage: r.VoteAverage,
		Genres:      toGenres(r.Genres),
	}
}

type ReviewRequest struct {
	Movie    *int   `json:"movie" example:"550"`
	TVSeries *int   `json:"tv_series"`
	Content  string `json:"content" example:"Great film."`
}

type ReviewResponse struct {
	ID        uint      `json:"id" example:"1"`
	Movie     *int      `json:"movie" example:"550"`
	TVSeries  *int      `json:"tv_series"`
	Content   string    `json:"content" example:"Great film."`
	CreatedAt time.Time `json:"created_at"`
	User      string    `json:"user" example:"alice"`
}

func newReviewResponse(r *models.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:        r.ID,
		Movie:     r.MovieID,
		TVSeries:  r.TVSeriesID,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
	}
	if r.User != nil {
		resp.User = r.User.Username
	}
	return resp
}

// FlexibleInt decodes from a JSON number or a numeric string such as "550".
type FlexibleInt int

func (i *FlexibleInt) UnmarshalJSON(b []byte) error {
	raw := string(bytes.TrimSpace(b))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(0)}
	}
	*i = FlexibleInt(n)
	return nil
}

type WatchlistActionRequest struct {
	TMDBID   FlexibleInt `json:"tmdb_id" validate:"required" swaggertype:"integer" example:"550"`
	TMDBType string      `json:"tmdb_type" example:"movie"`
}

// WatchlistItemRef echoes the item a watchlist request was about.
type WatchlistItemRef struct {
	TMDBID    int    `json:"tmdb_id" example:"550"`
	MediaType string `json:"tmdb_type" example:"movie"`
}

type WatchlistResponse struct {
	ID    uint                   `json:"id" example:"1"`
	Items []models.WatchlistItem `json:"items"`
}
