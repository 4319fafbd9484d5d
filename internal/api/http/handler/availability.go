package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/internal/service/availability"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
)

type AvailabilityHandler struct {
	svc availability.Service
}

func NewAvailabilityHandler(svc availability.Service) *AvailabilityHandler {
	return &AvailabilityHandler{svc: svc}
}

func mapAvailabilityError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, availability.ErrForbidden),
		errors.Is(err, authorize.ErrForbidden):
		return forbidden(c, err.Error())
	case errors.Is(err, availability.ErrSlotNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, availability.ErrSlotBooked):
		return conflict(c, err.Error())
	case errors.Is(err, availability.ErrInvalidTimeRange):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// GET /api/v1/availability
func (h *AvailabilityHandler) ListOpen(c fiber.Ctx) error {
	list, err := h.svc.ListOpen(c.Context())
	if err != nil {
		return mapAvailabilityError(c, err)
	}
	return ok(c, list)
}

// GET /api/v1/availability/professor
func (h *AvailabilityHandler) ListOwn(c fiber.Ctx) error {
	actor, valid := actorFrom(c)
	if !valid {
		return unauthorized(c, "unauthorized")
	}

	list, err := h.svc.ListOwn(c.Context(), actor)
	if err != nil {
		return mapAvailabilityError(c, err)
	}
	return ok(c, list)
}

// GET /api/v1/availability/professor/:id
func (h *AvailabilityHandler) ListForProfessor(c fiber.Ctx) error {
	professorID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid professor id")
	}

	list, err := h.svc.ListOpenForProfessor(c.Context(), professorID)
	if err != nil {
		return mapAvailabilityError(c, err)
	}
	return ok(c, list)
}

// POST /api/v1/availability
func (h *AvailabilityHandler) Create(c fiber.Ctx) error {
	actor, valid := actorFrom(c)
	if !valid {
		return unauthorized(c, "unauthorized")
	}

	var body struct {
		StartTime time.Time `json:"startTime"`
		EndTime   time.Time `json:"endTime"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	slot, err := h.svc.Create(c.Context(), actor, availability.CreateRequest{
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
	})
	if err != nil {
		return mapAvailabilityError(c, err)
	}
	return created(c, slot)
}

// DELETE /api/v1/availability/:id
func (h *AvailabilityHandler) Delete(c fiber.Ctx) error {
	actor, valid := actorFrom(c)
	if !valid {
		return unauthorized(c, "unauthorized")
	}

	slotID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid availability id")
	}

	if err := h.svc.Delete(c.Context(), actor, slotID); err != nil {
		return mapAvailabilityError(c, err)
	}
	return message(c, "availability slot deleted")
}
