package services

import (
	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/helpers"
	"LINKUP_server/schemas"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns a profile; a private target the caller does not
// follow gets a redacted view instead of an error
func GetProfile(c *fiber.Ctx) error {

	userID := c.Locals("userid").(string)
	targetID := c.Params("targetUserId")

	user, err := global.DB.GetUserByID(c.Context(), targetID)
	if err != nil {
		return errors.HandleAppError(c, "get_profile", err)
	}

	postsCount, err := global.DB.CountPostsByUser(c.Context(), targetID)
	if err != nil {
		return errors.HandleAppError(c, "count_posts", err)
	}

	profile := schemas.Profile{
		ID:             user.ID,
		Username:       user.Username,
		FullName:       user.FullName,
		Bio:            user.Bio,
		ProfilePic:     user.ProfilePic,
		IsPrivate:      user.IsPrivate,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
		PostsCount:     postsCount,
	}

	visible, err := global.DB.CanViewUser(c.Context(), userID, user)
	if err != nil {
		return errors.HandleAppError(c, "can_view_user", err)
	}
	if !visible {
		profile.Posts = "This account is private"
		return helpers.DataResponse(c, "Profile", profile)
	}

	posts, err := global.DB.PostsByUser(c.Context(), targetID)
	if err != nil {
		return errors.HandleAppError(c, "posts_by_user", err)
	}
	profile.Posts = posts

	return helpers.DataResponse(c, "Profile", profile)
}

// UpdateProfile applies partial profile changes, optionally replacing
// the profile picture through a multipart upload
func UpdateProfile(c *fiber.Ctx) error {

	userID := c.Locals("userid").(string)

	req := new(schemas.UpdateProfileSchema)

	if err := c.BodyParser(req); err != nil {
		return errors.HandleBadJsonError(c)
	}

	if err := global.Validator.Struct(req); err != nil {
		return errors.HandleValidatorError(c, err)
	}

	var profilePic *string
	if file, err := c.FormFile("profilePic"); err == nil {
		objectName, err := helpers.UploadMedia(c, file, "profiles/"+userID)
		if err != nil {
			return err
		}
		profilePic = &objectName
	}

	if req.Username != nil {
		if !validUsername.MatchString(*req.Username) {
			return errors.HandleBadRequestError(c, "Username", "regex")
		}
		exists, err := global.DB.UsernameExists(c.Context(), *req.Username)
		if err != nil {
			return errors.HandleInternalError(c, "users", err.Error())
		}
		if exists {
			return errors.HandleBadRequestError(c, "Username", "exists")
		}
	}

	user, err := global.DB.UpdateProfile(c.Context(), userID, req, profilePic)
	if err != nil {
		return errors.HandleAppError(c, "update_profile", err)
	}

	return helpers.DataResponse(c, "Profile updated", user)
}

// TogglePrivate flips the account between public and private
func TogglePrivate(c *fiber.Ctx) error {

	private, err := global.DB.TogglePrivate(c.Context(), c.Locals("userid").(string))
	if err != nil {
		return errors.HandleAppError(c, "toggle_private", err)
	}

	return helpers.DataResponse(c, "Privacy updated", fiber.Map{"isPrivate": private})
}

// Followers lists the accepted followers of a target
func Followers(c *fiber.Ctx) error {

	followers, err := global.DB.Followers(c.Context(), c.Locals("userid").(string), c.Params("targetUserId"))
	if err != nil {
		return errors.HandleAppError(c, "followers", err)
	}

	return helpers.DataResponse(c, "Followers", followers)
}

// Following lists who a target follows
func Following(c *fiber.Ctx) error {

	following, err := global.DB.Following(c.Context(), c.Locals("userid").(string), c.Params("targetUserId"))
	if err != nil {
		return errors.HandleAppError(c, "following", err)
	}

	return helpers.DataResponse(c, "Following", following)
}

// RemoveFollower force-removes an accepted follower
func RemoveFollower(c *fiber.Ctx) error {

	err := global.DB.RemoveFollower(c.Context(), c.Locals("userid").(string), c.Params("followerId"))
	if err != nil {
		return errors.HandleAppError(c, "remove_follower", err)
	}

	return helpers.OKResponse(c, "Follower removed")
}

// ToggleCloseFriend adds or removes a followed account from the close
// friends list
func ToggleCloseFriend(c *fiber.Ctx) error {

	added, err := global.DB.ToggleCloseFriend(c.Context(), c.Locals("userid").(string), c.Params("targetUserId"))
	if err != nil {
		return errors.HandleAppError(c, "toggle_close_friend", err)
	}

	return helpers.DataResponse(c, "Close friends updated", fiber.Map{"closeFriend": added})
}

// CloseFriends lists the caller's close friends
func CloseFriends(c *fiber.Ctx) error {

	friends, err := global.DB.CloseFriends(c.Context(), c.Locals("userid").(string))
	if err != nil {
		return errors.HandleAppError(c, "close_friends", err)
	}

	return helpers.DataResponse(c, "Close friends", friends)
}
