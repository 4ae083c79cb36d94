package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"movie-catalog/internal/models"
	"movie-catalog/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string
	Username string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, *models.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, error)
	// Logout revokes a refresh token owned by user.
	Logout(ctx context.Context, user *models.User, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// Authenticate resolves the active user behind an access token.
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	EnsureStaffUser(ctx context.Context, email, username, password string) error
}

type authService struct {
	users      repository.UserRepository
	tokens     *TokenManager
	revocation RevocationStore
	bcryptCost int
	logger     *logrus.Logger

	// dummyHash is compared against when the email is unknown so both failure paths cost a bcrypt round.
	dummyHash []byte
}

func NewAuthService(users repository.UserRepository, tokens *TokenManager, revocation RevocationStore, bcryptCost int, logger *logrus.Logger) AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcryptCost)

	return &authService{
		users:      users,
		tokens:     tokens,
		revocation: revocation,
		bcryptCost: bcryptCost,
		logger:     logger,
		dummyHash:  dummy,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, *models.TokenPair, error) {
	user, err := s.createUser(ctx, input, false)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("User registered")

	return user, pair, nil
}

func (s *authService) createUser(ctx context.Context, input RegisterInput, staff bool) (*models.User, error) {
	email := normalizeEmail(input.Email)
	username := strings.TrimSpace(input.Username)

	fields := map[string]string{}
	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		fields["email"] = "user with this email address already exists."
	}
	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		fields["username"] = "user with this username already exists."
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		IsActive:     true,
		IsStaff:      staff,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Uniqueness raced with another registration.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("email", "user with this email or username already exists.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.tokens.IssuePair(user)
}

func (s *authService) Logout(ctx context.Context, user *models.User, refreshToken string) error {
	claims, err := s.tokens.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return err
	}
	if claims.UserID != user.ID {
		return ErrInvalidToken
	}

	if err := s.revocation.Revoke(ctx, claims.ID, claims.UserID, claims.ExpiresAt.Time); err != nil {
		return err
	}

	s.logger.WithField("user_id", user.ID).Info("Refresh token revoked")
	return nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Parse(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}

	revoked, err := s.revocation.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", ErrTokenRevoked
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil || !user.IsActive {
		return "", ErrInvalidToken
	}

	return s.tokens.IssueAccess(user.ID)
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(accessToken, TokenTypeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}
	return user, nil
}

func (s *authService) EnsureStaffUser(ctx context.Context, email, username, password string) error {
	if password == "" {
		return nil
	}

	existing, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return fmt.Errorf("failed to check for existing staff user: %w", err)
	}
	if existing != nil {
		return nil
	}

	user, err := s.createUser(ctx, RegisterInput{Email: email, Username: username, Password: password}, true)
	if err != nil {
		return fmt.Errorf("failed to seed staff user: %w", err)
	}

	s.logger.WithField("email", user.Email).Info("Staff user created")
	return nil
}
