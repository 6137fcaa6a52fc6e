package routes

import (
	"LINKUP_server/middlewares"
	"LINKUP_server/services"
	"LINKUP_server/socket"

	"github.com/gofiber/fiber/v2"
)

func messageRoutes(api fiber.Router, hub *socket.Hub) {
	message := api.Group("/message")
	message.Use(middlewares.Authenticate)

	message.Get("/:roomId", services.GetMessagesByRoom)
	message.Post("/:receiverId", services.SendMessage(hub))
	message.Put("/:messageId", services.EditMessage(hub))
	message.Delete("/:messageId/all", services.DeleteMessageForEveryone(hub))
	message.Delete("/:messageId", services.DeleteMessage)
}
