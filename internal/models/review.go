package models

import "time"

// Review targets exactly one of Movie or TVSeries.
type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	MovieID    *int      `gorm:"column:movie_id;index" json:"movie"`
	Movie      *Movie    `gorm:"foreignKey:MovieID;references:TMDBID;constraint:OnDelete:CASCADE" json:"-"`
	TVSeriesID *int      `gorm:"column:tv_series_id;index" json:"tv_series"`
	TVSeries   *TVSeries `gorm:"foreignKey:TVSeriesID;references:TMDBID;constraint:OnDelete:CASCADE" json:"-"`
	UserID     uint      `gorm:"not null;index" json:"-"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}
