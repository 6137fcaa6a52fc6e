package routes

import (
	"LINKUP_server/middlewares"
	"LINKUP_server/services"

	"github.com/gofiber/fiber/v2"
)

func mediaRoutes(api fiber.Router) {
	media := api.Group("/media")
	media.Use(middlewares.Authenticate)

	media.Get("/*", services.GetMedia)
}
