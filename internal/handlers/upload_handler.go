package handlers

import (
	"context"
	"errors"

	"movie-catalog/internal/services"
	"movie-catalog/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// PosterUploader issues presigned poster uploads.
type PosterUploader interface {
	GeneratePresignedURL(ctx context.Context, filename string) (*services.PresignedUpload, error)
}

type UploadHandler struct {
	uploader PosterUploader
	logger   *logrus.Logger
}

// NewUploadHandler accepts a nil uploader when object storage is disabled.
func NewUploadHandler(uploader PosterUploader, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		logger:   logger,
	}
}

// GetPresignedURL godoc
// @Summary Get presigned URL for poster upload
// @Description Generate a presigned PUT URL for uploading a poster image to MinIO/S3. Use public_url as poster_url afterwards.
// @Tags upload
// @Produce json
// @Security BearerAuth
// @Param filename query string true "Filename (.jpg, .jpeg, .png or .webp)"
// @Success 200 {object} utils.StandardResponse{data=services.PresignedUpload}
// @Failure 400 {object} utils.StandardResponse
// @Failure 503 {object} utils.StandardResponse "Storage disabled"
// @Router /upload/presign [get]
func (h *UploadHandler) GetPresignedURL(c *fiber.Ctx) error {
	if h.uploader == nil {
		return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, services.ErrStorageNotAvailable.Error())
	}

	filename := c.Query("filename")
	if filename == "" {
		return utils.ValidationErrorResponse(c, map[string]string{"filename": "This field is required."})
	}

	upload, err := h.uploader.GeneratePresignedURL(c.Context(), filename)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return utils.ValidationErrorResponse(c, verr.Fields)
		}
		h.logger.WithError(err).Error("Failed to generate presigned URL")
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate presigned URL")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, "Presigned URL generated successfully", upload)
}
