package routes

import (
	"LINKUP_server/middlewares"
	"LINKUP_server/services"
	"LINKUP_server/socket"

	"github.com/gofiber/fiber/v2"
)

func storyRoutes(api fiber.Router, hub *socket.Hub) {
	story := api.Group("/story")
	story.Use(middlewares.Authenticate)

	story.Post("/", services.CreateStory)
	story.Get("/:targetUserId", services.StoriesByUser)
	story.Post("/:storyId/view", services.ViewStory(hub))
	story.Delete("/:storyId", services.DeleteStory)
}
