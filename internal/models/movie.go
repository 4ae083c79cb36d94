package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// ParseMediaType maps a request discriminator to a media type.
// Only "tv" selects TV series; everything else falls back to movies.
func ParseMediaType(value string) string {
	if value == MediaTypeTV {
		return MediaTypeTV
	}
	return MediaTypeMovie
}

type Movie struct {
	TMDBID      int       `gorm:"column:tmdb_id;primaryKey;autoIncrement:false" json:"tmdb_id" example:"550"`
	TMDBType    string    `gorm:"column:tmdb_type;size:10;not null;default:movie;index" json:"tmdb_type" example:"movie"`
	Title       string    `gorm:"size:255;not null;index" json:"title" example:"Fight Club"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ReleaseDate string    `gorm:"size:10;not null;index" json:"release_date" example:"1999-10-15"`
	PosterURL   *string   `gorm:"size:500" json:"poster_url"`
	VoteAverage *float64  `json:"vote_average" example:"8.4"`
	Genres      []Genre   `gorm:"many2many:movie_genres;joinForeignKey:MovieID;joinReferences:GenreID;constraint:OnDelete:CASCADE" json:"genres"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Movie) TableName() string {
	return "movies"
}

func (m *Movie) BeforeSave(tx *gorm.DB) error {
	m.TMDBType = MediaTypeMovie
	return nil
}

type TVSeries struct {
	TMDBID      int       `gorm:"column:tmdb_id;primaryKey;autoIncrement:false" json:"tmdb_id" example:"1399"`
	TMDBType    string    `gorm:"column:tmdb_type;size:10;not null;default:tv;index" json:"tmdb_type" example:"tv"`
	Title       string    `gorm:"size:255;not null;index" json:"title" example:"Game of Thrones"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ReleaseDate string    `gorm:"size:10;not null;index" json:"release_date" example:"2011-04-17"`
	PosterURL   *string   `gorm:"size:500" json:"poster_url"`
	VoteAverage *float64  `json:"vote_average" example:"8.4"`
	Genres      []Genre   `gorm:"many2many:tv_series_genres;joinForeignKey:TVSeriesID;joinReferences:GenreID;constraint:OnDelete:CASCADE" json:"genres"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (TVSeries) TableName() string {
	return "tv_series"
}

func (s *TVSeries) BeforeSave(tx *gorm.DB) error {
	s.TMDBType = MediaTypeTV
	return nil
}
