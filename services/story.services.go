package services

import (
	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/helpers"
	"LINKUP_server/schemas"
	"LINKUP_server/socket"

	"github.com/gofiber/fiber/v2"
)

// CreateStory stores the uploaded media as a 24 hour story
func CreateStory(c *fiber.Ctx) error {

	userID := c.Locals("userid").(string)

	file, err := c.FormFile("media")
	if err != nil {
		return errors.HandleBadRequestError(c, "Media", "missing")
	}

	objectName, err := helpers.UploadMedia(c, file, "stories/"+userID)
	if err != nil {
		return err
	}

	id, err := helpers.NewID()
	if err != nil {
		return errors.HandleInternalError(c, "story_id", err.Error())
	}

	story := &schemas.Story{
		ID:               id,
		UserID:           userID,
		Media:            objectName,
		CloseFriendsOnly: c.FormValue("closeFriendsOnly") == "true",
	}
	if err = global.DB.CreateStory(c.Context(), story); err != nil {
		return errors.HandleAppError(c, "create_story", err)
	}

	return helpers.DataResponse(c, "Story created", story)
}

// StoriesByUser lists a target's unexpired stories the caller may see
func StoriesByUser(c *fiber.Ctx) error {

	stories, err := global.DB.StoriesByUser(c.Context(), c.Locals("userid").(string), c.Params("targetUserId"))
	if err != nil {
		return errors.HandleAppError(c, "stories_by_user", err)
	}

	return helpers.DataResponse(c, "Stories", stories)
}

// ViewStory records a view once per viewer and notifies the author
func ViewStory(hub *socket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {

		n, err := global.DB.ViewStory(c.Context(), c.Locals("userid").(string), c.Params("storyId"))
		if err != nil {
			return errors.HandleAppError(c, "view_story", err)
		}

		if n != nil {
			hub.PushNotification(n.UserID, n)
		}

		return helpers.OKResponse(c, "Story viewed")
	}
}

// DeleteStory removes the caller's own story
func DeleteStory(c *fiber.Ctx) error {

	err := global.DB.DeleteStory(c.Context(), c.Locals("userid").(string), c.Params("storyId"))
	if err != nil {
		return errors.HandleAppError(c, "delete_story", err)
	}

	return helpers.OKResponse(c, "Story deleted")
}
