package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/Alijeyrad/officehours_backend/internal/api/http/handler"
)

func (r *Router) registerAuthRoutes(api fiber.Router, h *handler.AuthHandler, authRequired, loginLimit fiber.Handler) {
	group := api.Group("/auth")
	group.Post("/register", loginLimit, h.Register)
	group.Post("/login", loginLimit, h.Login)
	group.Post("/refresh", h.Refresh)
	group.Post("/logout", authRequired, h.Logout)
}
