package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
)

// ErrorHandler renders errors returned from middleware and handlers.
// *fiber.Error keeps its status; anything else becomes a logged 500.
func ErrorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			return internalError(c, err)
		}
		return fail(c, fe.Code, kindForStatus(fe.Code), fe.Message)
	}
	return internalError(c, err)
}

func kindForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
		return KindBadRequest
	case fiber.StatusUnauthorized:
		return KindUnauthorized
	case fiber.StatusForbidden:
		return KindForbidden
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return KindNotFound
	case fiber.StatusConflict:
		return KindConflict
	case fiber.StatusTooManyRequests:
		return KindTooManyRequests
	default:
		return KindInternal
	}
}
