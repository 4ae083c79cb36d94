package models

// Genre is keyed by the upstream catalog's genre id.
type Genre struct {
	TMDBGenreID int    `gorm:"column:tmdb_genre_id;primaryKey;autoIncrement:false" json:"tmdb_genre_id" example:"28"`
	Name        string `gorm:"uniqueIndex;not null;size:100" json:"name" example:"Action"`
}

func (Genre) TableName() string {
	return "genres"
}
