package handlers

import (
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type TVSeriesHandler struct {
	service services.TVSeriesService
	logger  *logrus.Logger
}

func NewTVSeriesHandler(service services.TVSeriesService, logger *logrus.Logger) *TVSeriesHandler {
	return &TVSeriesHandler{
		service: service,
		logger:  logger,
	}
}

// ListSeries godoc
// @Summary Get all TV series
// @Description List every TV series with its genres
// @Tags tv
// @Produce json
// @Success 200 {object} utils.StandardResponse{data=[]models.TVSeries} "List of TV series"
// @Failure 500 {object} utils.StandardResponse "Internal server error"
// @Router /tv/ [get]
func (h *TVSeriesHandler) ListSeries(c *fiber.Ctx) error {
	ctx := c.Context()

	series, err := h.service.ListSeries(ctx)
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to retrieve TV series")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "TV series retrieved successfully", series)
}

// GetSeries godoc
// @Summary Get TV series by TMDB id
// @Description Get a single TV series. Movie ids are not found here.
// @Tags tv
// @Produce json
// @Param id path int true "TMDB id"
// @Success 200 {object} utils.StandardResponse{data=models.TVSeries} "TV series details"
// @Failure 404 {object} utils.StandardResponse "TV series not found"
// @Router /tv/{id}/ [get]
func (h *TVSeriesHandler) GetSeries(c *fiber.Ctx) error {
	ctx := c.Context()

	id, ok := pathID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Not found.")
	}

	series, err := h.service.GetSeries(ctx, id)
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to retrieve TV series")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "TV series retrieved successfully", series)
}

// CreateSeries godoc
// @Summary Create a new TV series
// @Description Create a TV series and get-or-create each of its genres
// @Tags tv
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param series body MediaRequest true "TV series"
// @Success 201 {object} utils.StandardResponse{data=models.TVSeries} "TV series created successfully"
// @Failure 400 {object} utils.StandardResponse "Field errors"
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Router /tv/ [post]
func (h *TVSeriesHandler) CreateSeries(c *fiber.Ctx) error {
	ctx := c.Context()

	var req MediaRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	series, err := h.service.CreateSeries(ctx, req.toInput())
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to create TV series")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "TV series created successfully", series)
}

// UpdateSeries godoc
// @Summary Update a TV series
// @Description Update the supplied fields and replace the genre set. Omitting genres clears them.
// @Tags tv
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "TMDB id"
// @Param series body MediaUpdateRequest true "Changed fields"
// @Success 200 {object} utils.StandardResponse{data=models.TVSeries} "TV series updated successfully"
// @Failure 400 {object} utils.StandardResponse "Field errors"
// @Failure 404 {object} utils.StandardResponse "TV series not found"
// @Router /tv/{id}/ [put]
func (h *TVSeriesHandler) UpdateSeries(c *fiber.Ctx) error {
	ctx := c.Context()

	id, ok := pathID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Not found.")
	}

	var req MediaUpdateRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	series, err := h.service.UpdateSeries(ctx, id, req.toPatch())
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to update TV series")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "TV series updated successfully", series)
}
