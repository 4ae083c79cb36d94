package services

import (
	"context"
	"fmt"
	"time"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/redis/go-redis/v9"
)

// RevocationStore is the refresh token revocation list.
type RevocationStore interface {
	// Revoke returns ErrTokenRevoked when jti is already listed.
	Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type redisRevocationStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisRevocationStore keeps one key per revoked token, expiring with the token itself.
func NewRedisRevocationStore(rdb *redis.Client) RevocationStore {
	return &redisRevocationStore{rdb: rdb, prefix: "token:revoked:"}
}

func (s *redisRevocationStore) Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return ErrInvalidToken
	}

	ok, err := s.rdb.SetNX(ctx, s.prefix+jti, userID, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if !ok {
		return ErrTokenRevoked
	}
	return nil
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, s.prefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

type databaseRevocationStore struct {
	repo repository.RevokedTokenRepository
}

func NewDatabaseRevocationStore(repo repository.RevokedTokenRepository) RevocationStore {
	return &databaseRevocationStore{repo: repo}
}

func (s *databaseRevocationStore) Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	fresh, err := s.repo.Revoke(ctx, &models.RevokedToken{
		JTI:       jti,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	if !fresh {
		return ErrTokenRevoked
	}
	return nil
}

func (s *databaseRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.repo.IsRevoked(ctx, jti)
}
