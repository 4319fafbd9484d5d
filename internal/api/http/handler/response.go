package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/pkg/logs"
	pasetotoken "github.com/Alijeyrad/officehours_backend/pkg/paseto"
)

// Error kinds returned in the "error" field.
const (
	KindBadRequest      = "bad_request"
	KindUnauthorized    = "unauthorized"
	KindForbidden       = "forbidden"
	KindNotFound        = "not_found"
	KindConflict        = "conflict"
	KindTooManyRequests = "too_many_requests"
	KindInternal        = "internal"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func ok(c fiber.Ctx, data any) error {
	return c.JSON(data)
}

func created(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(data)
}

func message(c fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"message": msg})
}

func noContent(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

func fail(c fiber.Ctx, status int, kind, msg string) error {
	return c.Status(status).JSON(ErrorBody{Message: msg, Error: kind})
}

func badRequest(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusBadRequest, KindBadRequest, msg)
}

func unauthorized(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusUnauthorized, KindUnauthorized, msg)
}

func forbidden(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusForbidden, KindForbidden, msg)
}

func notFound(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusNotFound, KindNotFound, msg)
}

func conflict(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusConflict, KindConflict, msg)
}

func tooManyRequests(c fiber.Ctx, msg string) error {
	return fail(c, fiber.StatusTooManyRequests, KindTooManyRequests, msg)
}

// internalError logs err with the request id and hides it from the caller.
func internalError(c fiber.Ctx, err error) error {
	logs.FromContext(c.Context()).Error("unhandled error",
		"method", c.Method(),
		"path", c.Path(),
		"err", err,
	)
	return fail(c, fiber.StatusInternalServerError, KindInternal, "internal server error")
}

// actorFrom returns the caller set by the auth middleware.
func actorFrom(c fiber.Ctx) (repo.Actor, bool) {
	claims, ok := pasetotoken.ClaimsFromFiber(c)
	if !ok {
		return repo.Actor{}, false
	}
	return repo.Actor{ID: claims.UserID, Role: repo.Role(claims.Role)}, true
}
