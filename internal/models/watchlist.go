package models

import "time"

// Watchlist is created lazily on a user's first add; there is at most one per user.
type Watchlist struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"uniqueIndex;not null" json:"-"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Movies    []Movie    `gorm:"many2many:watchlist_movies;joinForeignKey:WatchlistID;joinReferences:MovieID;constraint:OnDelete:CASCADE" json:"-"`
	TVSeries  []TVSeries `gorm:"many2many:watchlist_tv_series;joinForeignKey:WatchlistID;joinReferences:TVSeriesID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
}

func (Watchlist) TableName() string {
	return "watchlists"
}

type WatchlistItem struct {
	TMDBID    int     `json:"tmdb_id" example:"550"`
	Title     string  `json:"title" example:"Fight Club"`
	PosterURL *string `json:"poster_url"`
	MediaType string  `json:"media_type" example:"movie"`
}

// Items flattens movies and TV series into one list, movies first.
func (w *Watchlist) Items() []WatchlistItem {
	items := make([]WatchlistItem, 0, len(w.Movies)+len(w.TVSeries))
	for _, m := range w.Movies {
		items = append(items, WatchlistItem{
			TMDBID:    m.TMDBID,
			Title:     m.Title,
			PosterURL: m.PosterURL,
			MediaType: m.TMDBType,
		})
	}
	for _, s := range w.TVSeries {
		items = append(items, WatchlistItem{
			TMDBID:    s.TMDBID,
			Title:     s.Title,
			PosterURL: s.PosterURL,
			MediaType: s.TMDBType,
		})
	}
	return items
}
