package routes

import (
	"LINKUP_server/middlewares"
	"LINKUP_server/services"

	"github.com/gofiber/fiber/v2"
)

func searchRoutes(api fiber.Router) {
	search := api.Group("/search")
	search.Use(middlewares.Authenticate)

	search.Get("/users", services.SearchUsers)
}
