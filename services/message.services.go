package services

import (
	"LINKUP_server/db"
	"LINKUP_server/errors"
	"LINKUP_server/global"
	"LINKUP_server/helpers"
	"LINKUP_server/schemas"
	"LINKUP_server/socket"

	"github.com/gofiber/fiber/v2"
)

// GetMessagesByRoom returns the room history in creation order with
// content decrypted; the caller must be one of the two users encoded in
// the room id
func GetMessagesByRoom(c *fiber.Ctx) error {

	userID := c.Locals("userid").(string)
	roomID := c.Params("roomId")

	if !db.IsRoomParticipant(roomID, userID) {
		return errors.HandleAppError(c, "room_auth", errors.ForbiddenError("not a participant of this room"))
	}

	messages, err := global.DB.MessagesByRoom(c.Context(), roomID)
	if err != nil {
		return errors.HandleAppError(c, "messages_by_room", err)
	}

	visible := make([]schemas.Message, 0, len(messages))
	for _, m := range messages {
		if deletedFor(&m, userID) {
			continue
		}
		if m.IsDeletedForEveryone {
			m.Content = ""
		} else if plain, err := global.Codec.Decrypt(m.Content, m.IV); err == nil {
			m.Content = plain
		} else {
			m.Content = ""
		}
		visible = append(visible, m)
	}

	return helpers.DataResponse(c, "Messages", visible)
}

func deletedFor(m *schemas.Message, userID string) bool {
	for _, id := range m.DeletedFor {
		if id == userID {
			return true
		}
	}
	return false
}

// SendMessage persists an encrypted message over HTTP and broadcasts it
// to the live room
func SendMessage(hub *socket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {

		userID := c.Locals("userid").(string)
		receiverID := c.Params("receiverId")

		if receiverID == userID {
			return errors.HandleBadRequestError(c, "ReceiverID", "invalid")
		}
		if _, err := global.DB.GetUserByID(c.Context(), receiverID); err != nil {
			return errors.HandleAppError(c, "receiver", err)
		}

		req := new(schemas.CreateMessageSchema)

		if err := c.BodyParser(req); err != nil {
			return errors.HandleBadJsonError(c)
		}

		if err := global.Validator.Struct(req); err != nil {
			return errors.HandleValidatorError(c, err)
		}

		iv, ciphertext, err := global.Codec.Encrypt(req.Message)
		if err != nil {
			return errors.HandleInternalError(c, "encrypt", err.Error())
		}

		id, err := helpers.NewID()
		if err != nil {
			return errors.HandleInternalError(c, "message_id", err.Error())
		}

		m := &schemas.Message{
			ID:            id,
			SenderID:      userID,
			ReceiverID:    receiverID,
			Content:       ciphertext,
			IV:            iv,
			ReplyToID:     req.ReplyToID,
			ForwardFromID: req.ForwardFromID,
		}
		if err = global.DB.CreateMessage(c.Context(), m); err != nil {
			return errors.HandleAppError(c, "create_message", err)
		}

		out := *m
		out.Content = req.Message
		hub.Rooms.Broadcast(m.RoomID, "receive_message", out)

		return helpers.DataResponse(c, "Message sent", out)
	}
}

// EditMessage rewrites a message's content and broadcasts the edit
func EditMessage(hub *socket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {

		userID := c.Locals("userid").(string)
		messageID := c.Params("messageId")

		req := new(schemas.EditMessageSchema)

		if err := c.BodyParser(req); err != nil {
			return errors.HandleBadJsonError(c)
		}

		if err := global.Validator.Struct(req); err != nil {
			return errors.HandleValidatorError(c, err)
		}

		iv, ciphertext, err := global.Codec.Encrypt(req.NewContent)
		if err != nil {
			return errors.HandleInternalError(c, "encrypt", err.Error())
		}

		m, err := global.DB.EditMessage(c.Context(), messageID, userID, ciphertext, iv)
		if err != nil {
			return errors.HandleAppError(c, "edit_message", err)
		}

		out := *m
		out.Content = req.NewContent
		hub.Rooms.Broadcast(m.RoomID, "message_edited", out)

		return helpers.DataResponse(c, "Message edited", out)
	}
}

// DeleteMessage hides the message for the caller only
func DeleteMessage(c *fiber.Ctx) error {

	err := global.DB.DeleteMessageForUser(c.Context(), c.Params("messageId"), c.Locals("userid").(string))
	if err != nil {
		return errors.HandleAppError(c, "delete_message", err)
	}

	return helpers.OKResponse(c, "Message deleted for you")
}

// DeleteMessageForEveryone retracts the message for both sides inside
// the 24 hour window and broadcasts the retraction
func DeleteMessageForEveryone(hub *socket.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {

		m, err := global.DB.DeleteMessageForEveryone(c.Context(), c.Params("messageId"), c.Locals("userid").(string))
		if err != nil {
			return errors.HandleAppError(c, "delete_message_for_all", err)
		}

		hub.Rooms.Broadcast(m.RoomID, "message_deleted_for_everyone", fiber.Map{"messageId": m.ID})

		return helpers.OKResponse(c, "Message deleted for everyone")
	}
}
