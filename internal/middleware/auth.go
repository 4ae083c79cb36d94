package middleware

import (
	"errors"
	"strings"

	"movie-catalog/internal/models"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const userLocalsKey = "user"

// Auth guards routes with bearer access tokens.
type Auth struct {
	service            services.AuthService
	writesRequireStaff bool
	logger             *logrus.Logger
}

func NewAuth(service services.AuthService, writesRequireStaff bool, logger *logrus.Logger) *Auth {
	return &Auth{
		service:            service,
		writesRequireStaff: writesRequireStaff,
		logger:             logger,
	}
}

// RequireAuth rejects the request unless it carries a valid access token for an active user.
func (a *Auth) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication credentials were not provided.")
		}

		user, err := a.service.Authenticate(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInactiveUser):
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "User is inactive.")
			case errors.Is(err, services.ErrInvalidToken):
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Given token not valid for any token type.")
			}
			a.logger.WithError(err).Error("Failed to authenticate request")
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to authenticate request")
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// RequireStaff gates catalog writes when staff-only writes are configured. It must run after RequireAuth.
func (a *Auth) RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !a.writesRequireStaff {
			return c.Next()
		}
		user := CurrentUser(c)
		if user == nil || !user.IsStaff {
			return utils.ErrorResponse(c, fiber.StatusForbidden, "You do not have permission to perform this action.")
		}
		return c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth, or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
