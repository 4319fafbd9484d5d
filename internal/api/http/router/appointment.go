package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/officehours_backend/internal/api/http/handler"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
)

func (r *Router) registerAppointmentRoutes(
	api fiber.Router,
	ah *handler.AppointmentHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	appts := api.Group("/appointments", authRequired)

	appts.Post("/", requirePerm(authorize.ResourceAppointment, authorize.ActionCreate), ah.Book)
	appts.Get("/student", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ah.ListForStudent)
	appts.Get("/professor", requirePerm(authorize.ResourceAppointment, authorize.ActionList), ah.ListForProfessor)

	a := appts.Group("/:id")
	a.Put("/cancel", requirePerm(authorize.ResourceAppointment, authorize.ActionUpdate), ah.Cancel)
	a.Patch("/complete", requirePerm(authorize.ResourceAppointment, authorize.ActionClose), ah.Complete)
}
