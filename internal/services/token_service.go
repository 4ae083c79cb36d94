package services

import (
	"fmt"
	"strconv"
	"time"

	"movie-catalog/internal/config"
	"movie-catalog/internal/models"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type TokenClaims struct {
	TokenType string `json:"token_type"`
	UserID    uint   `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 access/refresh tokens.
type TokenManager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(cfg config.AuthConfig) *TokenManager {
	return &TokenManager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

func (m *TokenManager) IssuePair(user *models.User) (*models.TokenPair, error) {
	refresh, err := m.sign(user.ID, TokenTypeRefresh, m.refreshTTL)
	if err != nil {
		return nil, err
	}
	access, err := m.IssueAccess(user.ID)
	if err != nil {
		return nil, err
	}
	return &models.TokenPair{Refresh: refresh, Access: access}, nil
}

func (m *TokenManager) IssueAccess(userID uint) (string, error) {
	return m.sign(userID, TokenTypeAccess, m.accessTTL)
}

func (m *TokenManager) sign(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	claims := TokenClaims{
		TokenType: tokenType,
		UserID:    userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse verifies signature, expiry, issuer and token type.
func (m *TokenManager) Parse(raw, expectedType string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType || claims.ID == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	if !claims.VerifyIssuer(m.issuer, true) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
