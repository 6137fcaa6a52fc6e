package routes

import (
	"LINKUP_server/middlewares"
	"LINKUP_server/services"
	"LINKUP_server/socket"

	"github.com/gofiber/fiber/v2"
)

func followRoutes(api fiber.Router, hub *socket.Hub) {
	follow := api.Group("/follow")
	follow.Use(middlewares.Authenticate)

	follow.Get("/requests", services.ListRequests)
	follow.Get("/suggested", services.SuggestedUsers)
	follow.Post("/:targetUserId/toggle", services.ToggleFollow(hub))
	follow.Post("/:followerId/accept", services.AcceptRequest(hub))
	follow.Post("/:followerId/reject", services.RejectRequest(hub))
	follow.Get("/:targetUserId/mutual-followers", services.MutualFollowers)
}
