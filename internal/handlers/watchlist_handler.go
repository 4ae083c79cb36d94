package handlers

import (
	"errors"

	"movie-catalog/internal/middleware"
	"movie-catalog/internal/models"
	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type WatchlistHandler struct {
	service services.WatchlistService
	logger  *logrus.Logger
}

func NewWatchlistHandler(service services.WatchlistService, logger *logrus.Logger) *WatchlistHandler {
	return &WatchlistHandler{
		service: service,
		logger:  logger,
	}
}

func mediaLabel(mediaType string) string {
	if mediaType == models.MediaTypeTV {
		return "TV series"
	}
	return "Movie"
}

// ListWatchlists godoc
// @Summary Caller's watchlist
// @Description Movies are listed before TV series
// @Tags watchlist
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.StandardResponse{data=[]WatchlistResponse}
// @Failure 401 {object} utils.StandardResponse "Not authenticated"
// @Router /watchlist/ [get]
func (h *WatchlistHandler) ListWatchlists(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	watchlists, err := h.service.ListWatchlists(c.Context(), user.ID)
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to retrieve watchlist")
	}

	resp := make([]WatchlistResponse, 0, len(watchlists))
	for i := range watchlists {
		resp = append(resp, WatchlistResponse{ID: watchlists[i].ID, Items: watchlists[i].Items()})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, "Watchlist retrieved successfully", resp)
}

// AddToWatchlist godoc
// @Summary Add to watchlist
// @Description Adding an item twice is not an error: the second call answers 200.
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body WatchlistActionRequest true "Item"
// @Success 200 {object} utils.StandardResponse "Already in watchlist"
// @Success 201 {object} utils.StandardResponse "Added"
// @Failure 404 {object} utils.StandardResponse "Unknown item"
// @Router /watchlist/add/ [post]
func (h *WatchlistHandler) AddToWatchlist(c *fiber.Ctx) error {
	ctx := c.Context()
	user := middleware.CurrentUser(c)

	var req WatchlistActionRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	label := mediaLabel(models.ParseMediaType(req.TMDBType))

	result, err := h.service.Add(ctx, user.ID, int(req.TMDBID), req.TMDBType)
	if err != nil {
		return handleServiceError(c, h.logger, err, "Failed to add to watchlist")
	}

	if result == services.ResultAdded {
		return utils.SuccessResponse(c, fiber.StatusCreated, label+" added to watchlist.", nil)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, label+" is already in watchlist.", nil)
}

// RemoveFromWatchlist godoc
// @Summary Remove from watchlist
// @Tags watchlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body WatchlistActionRequest true "Item"
// @Success 200 {object} utils.StandardResponse "Removed"
// @Failure 404 {object} utils.StandardResponse{data=WatchlistItemRef} "Not in watchlist, unknown item or no watchlist"
// @Router /watchlist/remove/ [post]
func (h *WatchlistHandler) RemoveFromWatchlist(c *fiber.Ctx) error {
	ctx := c.Context()
	user := middleware.CurrentUser(c)

	var req WatchlistActionRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}
	label := mediaLabel(models.ParseMediaType(req.TMDBType))

	result, err := h.service.Remove(ctx, user.ID, int(req.TMDBID), req.TMDBType)
	if err != nil {
		if errors.Is(err, services.ErrWatchlistNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Watchlist not found.")
		}
		return handleServiceError(c, h.logger, err, "Failed to remove from watchlist")
	}

	if result == services.ResultNotInWatchlist {
		return utils.ErrorWithDataResponse(c, fiber.StatusNotFound, label+" not found in watchlist.", WatchlistItemRef{
			TMDBID:    int(req.TMDBID),
			MediaType: models.ParseMediaType(req.TMDBType),
		})
	}
	return utils.SuccessResponse(c, fiber.StatusOK, label+" removed from watchlist.", nil)
}
