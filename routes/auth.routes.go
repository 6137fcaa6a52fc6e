package routes

import (
	"LINKUP_server/services"

	"github.com/gofiber/fiber/v2"
)

func authRoutes(api fiber.Router) {
	auth := api.Group("/auth")
	auth.Post("/register", services.Register)
	auth.Post("/login", services.Login)
	auth.Post("/refresh", services.Refresh)
	auth.Post("/logout", services.Logout)
}
