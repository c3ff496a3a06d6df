package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

// ErrorHandlerMiddleware converts errors escaping a handler into the
// standard envelope. Classified errors keep their status code; anything
// unrecognized becomes a 500 without leaking internals.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
		}

		var se *chat.StatusError
		if errors.As(err, &se) {
			return ctx.Status(se.Code).JSON(ErrorResponse(se.Code, se.Msg))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
