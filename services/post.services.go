package services

import (
	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/helpers"
	"LINKUP_server/schemas"
	"LINKUP_server/socket"

	"github.com/gofiber/fiber/v2"
)

// CreatePost stores the uploaded media and creates the post row
func CreatePost(c *fiber.Ctx) error {

	userID := c.Locals("userid").(string)

	file, err := c.FormFile("media")
	if err != nil {
		return errors.HandleBadRequestError(c, "Media", "missing")
	}

	objectName, err := helpers.UploadMedia(c, file, "posts/"+userID)
	if err != nil {
		return err
	}

	id, err := helpers.NewID()
	if err != nil {
		return errors.HandleInternalError(c, "post_id", err.Error())
	}

	post := &schemas.Post{
		ID:      id,
		UserID:  userID,
		Caption: c.FormValue("caption"),
		Media:   objectName,
	}
	if err = global.DB.CreatePost(c.Context(), post); err != nil {
		return errors.HandleAppError(c, "create_post", err)
	}

	return helpers.DataResponse(c, "Post created", post)
}

// GetPost returns a post; private authors are only readable by accepted
// followers
func GetPost(c *fiber.Ctx) error {

	userID := c.Locals("userid").(string)

	post, err := global.DB.GetPost(c.Context(), c.Params("postId"))
	if err != nil {
		return errors.HandleAppError(c, "get_post", err)
	}

	owner, err := global.DB.GetUserByID(c.Context(), post.UserID)
	if err != nil {
		return errors.HandleAppError(c, "post_owner", err)
	}
	visible, err := global.DB.CanViewUser(c.Context(), userID, owner)
	if err != nil {
		return errors.HandleAppError(c, "can_view_user", err)
	}
	if !visible {
		return errors.HandleAppError(c, "post_privacy", errors.ForbiddenError("This account is private"))
	}

	return helpers.DataResponse(c, "Post", post)
}

// DeletePost removes the caller's own post
func DeletePost(c *fiber.Ctx) error {

	err := global.DB.DeletePost(c.Context(), c.Locals("userid").(string), c.Params("postId"))
	if err != nil {
		return errors.HandleAppError(c, "delete_post", err)
	}

	return helpers.OKResponse(c, "Post deleted")
}

// TogglePostLike likes or unlikes a post; a fresh like notifies the
// author
func TogglePostLike(hub *socket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {

		liked, n, err := global.DB.TogglePostLike(c.Context(), c.Locals("userid").(string), c.Params("postId"))
		if err != nil {
			return errors.HandleAppError(c, "toggle_like", err)
		}

		if n != nil {
			hub.PushNotification(n.UserID, n)
		}

		return helpers.DataResponse(c, "Like toggled", fiber.Map{"liked": liked})
	}
}

// AddComment comments on a post and notifies the author
func AddComment(hub *socket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {

		req := new(schemas.AddCommentSchema)

		if err := c.BodyParser(req); err != nil {
			return errors.HandleBadJsonError(c)
		}

		if err := global.Validator.Struct(req); err != nil {
			return errors.HandleValidatorError(c, err)
		}

		comment, n, err := global.DB.AddComment(c.Context(), c.Locals("userid").(string), c.Params("postId"), req.Content)
		if err != nil {
			return errors.HandleAppError(c, "add_comment", err)
		}

		if n != nil {
			hub.PushNotification(n.UserID, n)
		}

		return helpers.DataResponse(c, "Comment added", comment)
	}
}

// ListComments lists a post's comments in creation order
func ListComments(c *fiber.Ctx) error {

	comments, err := global.DB.ListComments(c.Context(), c.Params("postId"))
	if err != nil {
		return errors.HandleAppError(c, "list_comments", err)
	}

	return helpers.DataResponse(c, "Comments", comments)
}
