package services

import (
	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/helpers"

	"github.com/gofiber/fiber/v2"
)

// ListNotifications returns the caller's notifications, newest first
func ListNotifications(c *fiber.Ctx) error {

	notifications, err := global.DB.ListNotifications(c.Context(), c.Locals("userid").(string))
	if err != nil {
		return errors.HandleAppError(c, "list_notifications", err)
	}

	return helpers.DataResponse(c, "Notifications", notifications)
}

// MarkNotificationRead marks a received notification read
func MarkNotificationRead(c *fiber.Ctx) error {

	err := global.DB.MarkNotificationRead(c.Context(), c.Locals("userid").(string), c.Params("notificationId"))
	if err != nil {
		return errors.HandleAppError(c, "read_notification", err)
	}

	return helpers.OKResponse(c, "Notification read")
}

// DeleteNotification retracts a notification the caller sent
func DeleteNotification(c *fiber.Ctx) error {

	err := global.DB.DeleteNotification(c.Context(), c.Locals("userid").(string), c.Params("notificationId"))
	if err != nil {
		return errors.HandleAppError(c, "delete_notification", err)
	}

	return helpers.OKResponse(c, "Notification deleted")
}
