package routes

import (
	"LINKUP_server/middlewares"
	"LINKUP_server/services"
	"LINKUP_server/socket"

	"github.com/gofiber/fiber/v2"
)

func postRoutes(api fiber.Router, hub *socket.Hub) {
	post := api.Group("/post")
	post.Use(middlewares.Authenticate)

	post.Post("/", services.CreatePost)
	post.Get("/:postId", services.GetPost)
	post.Delete("/:postId", services.DeletePost)
	post.Post("/:postId/like", services.TogglePostLike(hub))
	post.Post("/:postId/comment", services.AddComment(hub))
	post.Get("/:postId/comments", services.ListComments)
}
