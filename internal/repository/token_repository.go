package repository

import (
	"context"
	"time"

	"movie-catalog/internal/database"
	"movie-catalog/internal/models"

	"gorm.io/gorm/clause"
)

// RevokedTokenRepository backs the refresh token revocation list when Redis is not available.
type RevokedTokenRepository interface {
	// Revoke returns false when jti was already on the list.
	Revoke(ctx context.Context, token *models.RevokedToken) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type revokedTokenRepository struct {
	db      *database.Database
	timeout time.Duration
}

func NewRevokedTokenRepository(db *database.Database) RevokedTokenRepository {
	return &revokedTokenRepository{
		db:      db,
		timeout: db.GetQueryTimeout(),
	}
}

func (r *revokedTokenRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.timeout)
}

func (r *revokedTokenRepository) Revoke(ctx context.Context, token *models.RevokedToken) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(token)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&count).Error
	return count > 0, err
}

func (r *revokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return result.RowsAffected, result.Error
}
