package handlers

import (
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type GenreHandler struct {
	service services.GenreService
	logger  *logrus.Logger
}

func NewGenreHandler(service services.GenreService, logger *logrus.Logger) *GenreHandler {
	return &GenreHandler{
		service: service,
		logger:  logger,
	}
}

// ListGenres godoc
// @Summary Get all genres
// @Tags genres
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]models.Genre}
// @Router /genres/ [get]
func (h *GenreHandler) ListGenres(c *fiber.Ctx) error {
	genres, err := h.service.ListGenres(c.Context())
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to retrieve genres")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Genres retrieved successfully", genres)
}

// CreateGenre godoc
// @Summary Get or create a genre
// @Description Returns 201 when the genre was created and 200 when it already existed. An existing name is never overwritten.
// @Tags genres
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param genre body GenreRequest true "Genre"
// @Success 200 {object} utils.StandardResponse{data=models.Genre} "Existing genre"
// @Success 201 {object} utils.StandardResponse{data=models.Genre} "Genre created"
// @Failure 400 {object} utils.StandardResponse "Field errors"
// @Router /genres/ [post]
func (h *GenreHandler) CreateGenre(c *fiber.Ctx) error {
	ctx := c.Context()

	var req GenreRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	genre, created, err := h.service.GetOrCreate(ctx, req.TMDBGenreID, req.Name)
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to create genre")
	}

	if created {
		return utils.SuccessResponse(c, fiber.StatusCreated, "Genre created successfully", genre)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Genre already exists", genre)
}

// GetGenre godoc
// @Summary Get genre by TMDB genre id
// @Tags genres
// @Produce json
// @Param id path int true "TMDB genre id"
// @Success 200 {object} utils.StandardResponse{data=models.Genre}
// @Failure 404 {object} utils.StandardResponse "Genre not found"
// @Router /genres/{id}/ [get]
func (h *GenreHandler) GetGenre(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Not found.")
	}

	genre, err := h.service.GetGenre(c.Context(), id)
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to retrieve genre")
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Genre retrieved successfully", genre)
}
