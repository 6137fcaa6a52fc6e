package services

import (
	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/helpers"
	"LINKUP_server/socket"

	"github.com/gofiber/fiber/v2"
)

// ToggleFollow follows, requests, or unfollows a target depending on the
// current edge; the raised notification is pushed after the commit
func ToggleFollow(hub *socket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {

		targetID := c.Params("targetUserId")

		change, err := global.DB.ToggleFollow(c.Context(), c.Locals("userid").(string), targetID)
		if err != nil {
			return errors.HandleAppError(c, "toggle_follow", err)
		}

		if change.Notification != nil {
			hub.PushNotification(targetID, change.Notification)
		}

		return helpers.DataResponse(c, "Follow toggled", change)
	}
}

// AcceptRequest approves a pending follow request
func AcceptRequest(hub *socket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {

		followerID := c.Params("followerId")

		n, err := global.DB.AcceptRequest(c.Context(), c.Locals("userid").(string), followerID)
		if err != nil {
			return errors.HandleAppError(c, "accept_request", err)
		}

		hub.PushNotification(followerID, n)

		return helpers.OKResponse(c, "Request accepted")
	}
}

// RejectRequest declines a pending follow request
func RejectRequest(hub *socket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {

		followerID := c.Params("followerId")

		n, err := global.DB.RejectRequest(c.Context(), c.Locals("userid").(string), followerID)
		if err != nil {
			return errors.HandleAppError(c, "reject_request", err)
		}

		hub.PushNotification(followerID, n)

		return helpers.OKResponse(c, "Request rejected")
	}
}

// ListRequests lists pending follow requests toward the caller
func ListRequests(c *fiber.Ctx) error {

	requests, err := global.DB.ListRequests(c.Context(), c.Locals("userid").(string))
	if err != nil {
		return errors.HandleAppError(c, "list_requests", err)
	}

	return helpers.DataResponse(c, "Pending requests", requests)
}

// MutualFollowers lists accounts both sides follow
func MutualFollowers(c *fiber.Ctx) error {

	mutual, err := global.DB.MutualFollowers(c.Context(), c.Locals("userid").(string), c.Params("targetUserId"))
	if err != nil {
		return errors.HandleAppError(c, "mutual_followers", err)
	}

	return helpers.DataResponse(c, "Mutual followers", mutual)
}

// SuggestedUsers ranks follows-of-follows ahead of recent accounts
func SuggestedUsers(c *fiber.Ctx) error {

	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	suggested, err := global.DB.SuggestedUsers(c.Context(), c.Locals("userid").(string), limit)
	if err != nil {
		return errors.HandleAppError(c, "suggested_users", err)
	}

	return helpers.DataResponse(c, "Suggested users", suggested)
}
