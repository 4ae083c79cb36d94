package handlers

import (
	"movie-catalog/internal/middleware"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type ReviewHandler struct {
	service services.ReviewService
	logger  *logrus.Logger
}

func NewReviewHandler(service services.ReviewService, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger,
	}
}

// CreateReview godoc
// @Summary Review a movie or TV series
// @Description The author is always the authenticated caller. Exactly one of movie or tv_series must be set.
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param review body ReviewRequest true "Review"
// @Success 201 {object} utils.StandardResponse{data=ReviewResponse}
// @Failure 400 {object} utils.StandardResponse "Field errors"
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Router /reviews/ [post]
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	ctx := c.Context()

	var req ReviewRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	review, err := h.service.CreateReview(ctx, middleware.CurrentUser(c), services.ReviewInput{
		MovieID:    req.Movie,
		TVSeriesID: req.TVSeries,
		Content:    req.Content,
	})
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to create review")
	}

	return utils.SuccessResponse(c, fiber.StatusCreated, "Review created successfully", newReviewResponse(review))
}

// ListReviews godoc
// @Summary List reviews for a movie or TV series
// @Description media_type "tv" selects TV series reviews; any other value selects movie reviews
// @Tags reviews
// @Produce json
// @Param id path int true "TMDB id"
// @Param media_type path string true "movie or tv"
// @Success 200 {object} utils.StandardResponse{data=[]ReviewResponse}
// @Router /reviews/{id}/{media_type}/ [get]
func (h *ReviewHandler) ListReviews(c *fiber.Ctx) error {
	id, ok := pathID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Not found.")
	}

	reviews, err := h.service.ListReviews(c.Context(), id, c.Params("media_type"))
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to retrieve reviews")
	}

	resp := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		resp = append(resp, newReviewResponse(&reviews[i]))
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Reviews retrieved successfully", resp)
}
