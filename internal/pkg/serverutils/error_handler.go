package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware renders errors returned by handlers as ErrorResponse.
// fiber.Error codes pass through; anything else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var ferr *fiber.Error
		if errors.As(err, &ferr) {
			code = ferr.Code
			message = ferr.Message
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
