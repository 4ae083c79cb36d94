package handlers

import (
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type MovieHandler struct {
	service services.MovieService
	logger  *logrus.Logger
}

func NewMovieHandler(service services.MovieService, logger *logrus.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  logger,
	}
}

// ListMovies godoc
// @Summary Get all movies
// @Description List every movie with its genres
// @Tags movies
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]models.Movie} "List of movies"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /movies/ [get]
func (h *MovieHandler) ListMovies(c *fiber.Ctx) error {
	ctx := c.Context()

	movies, err := h.service.ListMovies(ctx)
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to retrieve movies")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movies retrieved successfully", movies)
}

// GetMovie godoc
// @Summary Get movie by TMDB id
// @Description Get a single movie. TV series ids are not found here.
// @Tags movies
// @Produce json
// @Param id path int true "TMDB id"
// @Success 200 {object} utils.StandardResponse{data=models.Movie} "Movie details"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Router /movies/{id}/ [get]
func (h *MovieHandler) GetMovie(c *fiber.Ctx) error {
	ctx := c.Context()

	id, ok := pathID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Not found.")
	}

	movie, err := h.service.GetMovie(ctx, id)
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to retrieve movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie retrieved successfully", movie)
}

// CreateMovie godoc
// @Summary Create a new movie
// @Description Create a movie and get-or-create each of its genres
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param movie body MediaRequest true "Movie"
// @Success 201 {object} utils.StandardResponse{data=models.Movie} "Movie created successfully"
// @Failure 400 {object} utils.StandardResponse "Field errors"
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Router /movies/ [post]
func (h *MovieHandler) CreateMovie(c *fiber.Ctx) error {
	ctx := c.Context()

	var req MediaRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	movie, err := h.service.CreateMovie(ctx, req.toInput())
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to create movie")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Movie created successfully", movie)
}

// UpdateMovie godoc
// @Summary Update a movie
// @Description Update the supplied fields and replace the genre set. Omitting genres clears them.
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "TMDB id"
// @Param movie body MediaUpdateRequest true "Changed fields"
// @Success 200 {object} utils.StandardResponse{data=models.Movie} "Movie updated successfully"
// @Failure 400 {object} utils.StandardResponse "Field errors"
// @Failure 404 {object} utils.StandardResponse "Movie not found"
// @Router /movies/{id}/ [put]
func (h *MovieHandler) UpdateMovie(c *fiber.Ctx) error {
	ctx := c.Context()

	id, ok := pathID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Not found.")
	}

	var req MediaUpdateRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	movie, err := h.service.UpdateMovie(ctx, id, req.toPatch())
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to update movie")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Movie updated successfully", movie)
}
