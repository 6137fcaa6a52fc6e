package routes

import (
	"LINKUP_server/middlewares"
	"LINKUP_server/services"

	"github.com/gofiber/fiber/v2"
)

func notificationRoutes(api fiber.Router) {
	notification := api.Group("/notification")
	notification.Use(middlewares.Authenticate)

	notification.Get("/", services.ListNotifications)
	notification.Post("/:notificationId/read", services.MarkNotificationRead)
	notification.Delete("/:notificationId", services.DeleteNotification)
}
