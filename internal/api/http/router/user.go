package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/officehours_backend/internal/api/http/handler"
	"github.com/Alijeyrad/officehours_backend/pkg/authorize"
)

func (r *Router) registerUserRoutes(
	api fiber.Router,
	h *handler.UserHandler,
	authRequired fiber.Handler,
	requirePerm func(authorize.Resource, authorize.Action) fiber.Handler,
) {
	users := api.Group("/users", authRequired)
	users.Get("/me", requirePerm(authorize.ResourceUser, authorize.ActionRead), h.Me)
	users.Get("/professors", requirePerm(authorize.ResourceUser, authorize.ActionRead), h.ListProfessors)
}
