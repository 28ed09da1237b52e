package serverutils

import (
	"errors"

	"resume-turns-be/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the body of every failed request: {"detail": "..."}.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// NewErrorHandler maps handler errors to a status code and an ErrorResponse.
// *fiber.Error keeps its code, validation failures become 422, anything else
// is logged and reported as 500.
func NewErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		detail := "Internal Server Error"

		var fe *fiber.Error
		var ve validator.ValidationErrors
		switch {
		case errors.As(err, &fe):
			code = fe.Code
			detail = fe.Message
		case errors.As(err, &ve):
			code = fiber.StatusUnprocessableEntity
			detail = ve.Error()
		default:
			if log != nil {
				log.Error("HTTP", "Unhandled error", map[string]interface{}{
					"method": ctx.Method(),
					"path":   ctx.Path(),
					"error":  err.Error(),
				})
			}
		}

		return ctx.Status(code).JSON(ErrorResponse{Detail: detail})
	}
}
