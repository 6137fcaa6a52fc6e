package services

import (
	"LINKUP_server/errors"
	"LINKUP_server/helpers"

	"github.com/gofiber/fiber/v2"
)

// GetMedia streams a stored object (profile picture, post or story
// media) out of the media bucket
func GetMedia(c *fiber.Ctx) error {

	objectName := c.Params("*")
	if objectName == "" {
		return errors.HandleBadRequestError(c, "Media", "missing")
	}

	object, err := helpers.GetMedia(objectName)
	if err != nil {
		return errors.HandleInternalError(c, "minio_get", err.Error())
	}

	return c.SendStream(object)
}
