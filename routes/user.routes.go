package routes

import (
	"LINKUP_server/middlewares"
	"LINKUP_server/services"

	"github.com/gofiber/fiber/v2"
)

func userRoutes(api fiber.Router) {
	user := api.Group("/user")
	user.Use(middlewares.Authenticate)

	user.Get("/close-friends", services.CloseFriends)
	user.Put("/profile", services.UpdateProfile)
	user.Post("/toggle-private", services.TogglePrivate)
	user.Get("/:targetUserId/profile", services.GetProfile)
	user.Get("/:targetUserId/followers", services.Followers)
	user.Get("/:targetUserId/following", services.Following)
	user.Post("/:followerId/remove-follower", services.RemoveFollower)
	user.Post("/:targetUserId/close-friends/toggle", services.ToggleCloseFriend)
}
