package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/internal/service/appointment"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
)

type AppointmentHandler struct {
	svc appointment.Service
}

func NewAppointmentHandler(svc appointment.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc}
}

func mapAppointmentError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, appointment.ErrForbidden),
		errors.Is(err, appointment.ErrStudentsOnly),
		errors.Is(err, appointment.ErrStudentView),
		errors.Is(err, appointment.ErrProfessorView),
		errors.Is(err, authorize.ErrForbidden):
		return forbidden(c, err.Error())
	case errors.Is(err, appointment.ErrNotFound),
		errors.Is(err, appointment.ErrSlotNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, appointment.ErrSlotNotAvailable),
		errors.Is(err, appointment.ErrAlreadyCompleted),
		errors.Is(err, appointment.ErrAlreadyCancelled):
		return conflict(c, err.Error())
	case errors.Is(err, appointment.ErrInvalidStatus):
		return badRequest(c, err.Error())
	default:
		return internalError(c, err)
	}
}

// POST /api/v1/appointments
func (h *AppointmentHandler) Book(c fiber.Ctx) error {
	actor, valid := actorFrom(c)
	if !valid {
		return unauthorized(c, "unauthorized")
	}

	var body struct {
		AvailabilityID string `json:"availabilityId"`
		Notes          string `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	slotID, err := uuid.Parse(body.AvailabilityID)
	if err != nil {
		return badRequest(c, "invalid availabilityId")
	}

	appt, err := h.svc.Book(c.Context(), actor, appointment.BookRequest{
		AvailabilityID: slotID,
		Notes:          body.Notes,
	})
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return created(c, appt)
}

func listRequest(c fiber.Ctx) (appointment.ListRequest, error) {
	var q struct {
		Status string `query:"status"`
	}
	if err := c.Bind().Query(&q); err != nil {
		return appointment.ListRequest{}, err
	}
	var req appointment.ListRequest
	if q.Status != "" {
		st := repo.AppointmentStatus(q.Status)
		req.Status = &st
	}
	return req, nil
}

// GET /api/v1/appointments/student
func (h *AppointmentHandler) ListForStudent(c fiber.Ctx) error {
	actor, valid := actorFrom(c)
	if !valid {
		return unauthorized(c, "unauthorized")
	}
	req, err := listRequest(c)
	if err != nil {
		return badRequest(c, "invalid query")
	}

	list, err := h.svc.ListForStudent(c.Context(), actor, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, list)
}

// GET /api/v1/appointments/professor
func (h *AppointmentHandler) ListForProfessor(c fiber.Ctx) error {
	actor, valid := actorFrom(c)
	if !valid {
		return unauthorized(c, "unauthorized")
	}
	req, err := listRequest(c)
	if err != nil {
		return badRequest(c, "invalid query")
	}

	list, err := h.svc.ListForProfessor(c.Context(), actor, req)
	if err != nil {
		return mapAppointmentError(c, err)
	}
	return ok(c, list)
}

// PUT /api/v1/appointments/:id/cancel
func (h *AppointmentHandler) Cancel(c fiber.Ctx) error {
	actor, valid := actorFrom(c)
	if !valid {
		return unauthorized(c, "unauthorized")
	}
	apptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	if err := h.svc.Cancel(c.Context(), actor, apptID); err != nil {
		return mapAppointmentError(c, err)
	}
	return message(c, "appointment cancelled")
}

// PATCH /api/v1/appointments/:id/complete
func (h *AppointmentHandler) Complete(c fiber.Ctx) error {
	actor, valid := actorFrom(c)
	if !valid {
		return unauthorized(c, "unauthorized")
	}
	apptID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "invalid appointment id")
	}

	if err := h.svc.Complete(c.Context(), actor, apptID); err != nil {
		return mapAppointmentError(c, err)
	}
	return message(c, "appointment completed")
}
