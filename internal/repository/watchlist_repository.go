package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WatchlistRepository interface {
	FindByUser(ctx context.Context, userID uint) ([]models.Watchlist, error)
	// AddMember creates the user's watchlist when missing. added is false when the
	// item was already a member.
	AddMember(ctx context.Context, userID uint, mediaType string, tmdbID int) (added bool, err error)
	// RemoveMember returns ErrNotFound when the user has no watchlist yet.
	RemoveMember(ctx context.Context, userID uint, mediaType string, tmdbID int) (removed bool, err error)
}

type watchlistRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewWatchlistRepository(db *database.Database) WatchlistRepository {
	return &watchlistRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *watchlistRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.timeout)
}

// membershipTable returns the join table and item column for a media type.
func membershipTable(mediaType string) (table, column string) {
	if mediaType == models.MediaTypeTV {
		return "watchlist_tv_series", "tv_series_id"
	}
	return "watchlist_movies", "movie_id"
}

func (r *watchlistRepository) FindByUser(ctx context.Context, userID uint) ([]models.Watchlist, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	watchlists := []models.Watchlist{}
	err := r.db.WithContext(ctx).
		Preload("Movies", func(db *gorm.DB) *gorm.DB { return db.Order("movies.tmdb_id") }).
		Preload("TVSeries", func(db *gorm.DB) *gorm.DB { return db.Order("tv_series.tmdb_id") }).
		Where("user_id = ?", userID).
		Order("id").
		Find(&watchlists).Error
	return watchlists, err
}

func (r *watchlistRepository) AddMember(ctx context.Context, userID uint, mediaType string, tmdbID int) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	table, column := membershipTable(mediaType)
	added := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		watchlist, err := lockWatchlist(tx, userID, true)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Table(table).
			Where(fmt.Sprintf("watchlist_id = ? AND %s = ?", column), watchlist.ID, tmdbID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		result := tx.Table(table).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]interface{}{
				"watchlist_id": watchlist.ID,
				column:         tmdbID,
			})
		if result.Error != nil {
			return result.Error
		}
		added = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (r *watchlistRepository) RemoveMember(ctx context.Context, userID uint, mediaType string, tmdbID int) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	table, column := membershipTable(mediaType)
	removed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		watchlist, err := lockWatchlist(tx, userID, false)
		if err != nil {
			return err
		}

		result := tx.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE watchlist_id = ? AND %s = ?", table, column),
			watchlist.ID, tmdbID,
		)
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// lockWatchlist loads the user's watchlist with a row lock held until tx ends,
// creating it first when create is set.
func lockWatchlist(tx *gorm.DB, userID uint, create bool) (*models.Watchlist, error) {
	var watchlist models.Watchlist
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&watchlist).Error
	if err == nil {
		return &watchlist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if !create {
		return nil, ErrNotFound
	}

	watchlist = models.Watchlist{UserID: userID}
	if err := tx.Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&watchlist).Error; err != nil {
		return nil, err
	}

	// Re-read under lock: a concurrent first add may have created the row instead.
	watchlist = models.Watchlist{}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Take(&watchlist).Error; err != nil {
		return nil, err
	}
	return &watchlist, nil
}
