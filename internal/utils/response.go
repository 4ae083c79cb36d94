package utils

import "github.com/gofiber/fiber/v2"

// StandardResponse represents the standard API response format
type StandardResponse struct {
	Status  string            `json:"status"`
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// SuccessResponse sends a success response
func SuccessResponse(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(StandardResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse sends an error response
func ErrorResponse(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(StandardResponse{
		Status:  errorStatus(code),
		Code:    code,
		Message: message,
	})
}

// ErrorWithDataResponse sends an error response with additional data
func ErrorWithDataResponse(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(StandardResponse{
		Status:  errorStatus(code),
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// ValidationErrorResponse sends a 400 with one message per rejected field
func ValidationErrorResponse(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(StandardResponse{
		Status:  "error",
		Code:    fiber.StatusBadRequest,
		Message: "Validation failed",
		Errors:  fields,
	})
}

func errorStatus(code int) string {
	if code >= 500 {
		return "fail"
	}
	return "error"
}
