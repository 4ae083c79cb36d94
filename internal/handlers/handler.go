package handlers

import (
	"errors"
	"strconv"

	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// parseBody decodes and validates the JSON body. It writes the 400 response itself
// and returns false when the request is rejected.
func parseBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		if fields := utils.DecodeErrorFields(err); fields != nil {
			return false, utils.ValidationErrorResponse(c, fields)
		}
		return false, utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if fields := utils.ValidateStruct(out); fields != nil {
		return false, utils.ValidationErrorResponse(c, fields)
	}
	return true, nil
}

// pathID parses an integer route parameter. Non-numeric ids match no resource.
func pathID(c *fiber.Ctx, name string) (int, bool) {
	id, err := strconv.Atoi(c.Params(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleServiceError maps domain errors onto the response envelope.
func handleServiceError(c *fiber.Ctx, logger *logrus.Logger, err error, message string) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return utils.ValidationErrorResponse(c, verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Not found.")
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error(message)
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, message)
}
