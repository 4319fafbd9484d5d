package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/officehours_backend/internal/service/user"
)

type UserHandler struct {
	svc user.Service
}

func NewUserHandler(svc user.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func mapUserError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		return notFound(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /api/v1/users/me
func (h *UserHandler) Me(c fiber.Ctx) error {
	actor, valid := actorFrom(c)
	if !valid {
		return unauthorized(c, "unauthorized")
	}

	u, err := h.svc.GetByID(c.Context(), actor.ID)
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, u)
}

// GET /api/v1/users/professors
func (h *UserHandler) ListProfessors(c fiber.Ctx) error {
	list, err := h.svc.ListProfessors(c.Context())
	if err != nil {
		return mapUserError(c, err)
	}
	return ok(c, list)
}
