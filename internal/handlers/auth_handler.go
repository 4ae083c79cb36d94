package handlers

import (
	"errors"

	"movie-catalog/internal/middleware"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	service services.AuthService
	logger  *logrus.Logger
}

func NewAuthHandler(service services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

// Register godoc
// @Summary Register a user
// @Description Create an account and return a refresh/access token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration"
// @Success 201 {object} utils.StandardResponse{data=models.TokenPair}
// @Failure 400 {object} utils.StandardResponse "Field errors"
// @Router /register/ [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.Context()

	var req RegisterRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	_, pair, err := h.service.Register(ctx, services.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to register user")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "User registered successfully", pair)
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a refresh/access token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} utils.StandardResponse{data=models.TokenPair}
// @Failure 400 {object} utils.StandardResponse "Invalid credentials"
// @Router /login/ [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.Context()

	var req LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	pair, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid credentials")
		}
		return handleServiceError(c, h.logger, err, "Failed to log in")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Login successful", pair)
}

// Logout godoc
// @Summary Log out
// @Description Revoke the caller's refresh token
// @Tags auth
// @Accept json
// @Security BearerAuth
// @Param token body LogoutRequest true "Refresh token under refresh_token (refresh is also read)"
// @Success 204
// @Failure 400 {object} utils.StandardResponse "Invalid token"
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Router /logout/ [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	ctx := c.Context()

	var req LogoutRequest
	if err := c.BodyParser(&req); err != nil || req.token() == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid refresh token")
	}

	if err := h.service.Logout(ctx, middleware.CurrentUser(c), req.token()); err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrTokenRevoked) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid refresh token")
		}
		return handleServiceError(c, h.logger, err, "Failed to log out")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// RefreshToken godoc
// @Summary Refresh access token
// @Description Exchange a refresh token for a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param token body RefreshRequest true "Refresh token"
// @Success 200 {object} utils.StandardResponse{data=AccessTokenResponse}
// @Failure 401 {object} utils.StandardResponse "Invalid or revoked token"
// @Router /token/refresh/ [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	ctx := c.Context()

	var req RefreshRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	access, err := h.service.Refresh(ctx, req.Refresh)
	if err != nil {
		if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrTokenRevoked) {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Token is invalid or expired")
		}
		return handleServiceError(c, h.logger, err, "Failed to refresh token")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Token refreshed successfully", AccessTokenResponse{Access: access})
}

// Me godoc
// @Summary Current user
// @Description Identity of the authenticated caller
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.StandardResponse{data=UserResponse}
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Router /user/ [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return utils.SuccessResponse(c, fiber.StatusOK, "User retrieved successfully", UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	})
}
