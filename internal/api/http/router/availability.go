package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/officehours_backend/internal/api/http/handler"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
)

func (r *Router) registerAvailabilityRoutes(
	api fiber.Router,
	h *handler.AvailabilityHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	slots := api.Group("/availability", authRequired)

	slots.Get("/", requirePerm(authorize.ResourceAvailability, authorize.ActionList), h.ListOpen)
	slots.Post("/", requirePerm(authorize.ResourceAvailability, authorize.ActionCreate), h.Create)

	// own slots need read, which only professors hold
	slots.Get("/professor", requirePerm(authorize.ResourceAvailability, authorize.ActionRead), h.ListOwn)
	slots.Get("/professor/:id", requirePerm(authorize.ResourceAvailability, authorize.ActionList), h.ListForProfessor)

	slots.Delete("/:id", requirePerm(authorize.ResourceAvailability, authorize.ActionDelete), h.Delete)
}
