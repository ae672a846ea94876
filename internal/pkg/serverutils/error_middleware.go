package serverutils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the JSON
// error envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return HandleError(ctx, err)
	}
}

func HandleError(ctx *fiber.Ctx, err error) error {
	var appErr *AppError
	var fiberErr *fiber.Error
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &appErr):
		return ctx.Status(appErr.Code).JSON(ErrorResponse(appErr.Code, appErr.Message))
	case errors.As(err, &validationErrs):
		body := ErrorResponse(fiber.StatusBadRequest, "validation failed")
		body.Errors = fieldErrors(validationErrs)
		return ctx.Status(fiber.StatusBadRequest).JSON(body)
	case errors.As(err, &fiberErr):
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(fiber.StatusInternalServerError, "internal server error"))
	}
}
