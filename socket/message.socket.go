package socket

import (
	"LINKUP_server/db"
	"LINKUP_server/errors"
	"LINKUP_server/helpers"
	"LINKUP_server/schemas"

	jsoniter "github.com/json-iterator/go"
)

type roomData struct {
	RoomID string `json:"roomId"`
}

type typingData struct {
	ChatRoomID string `json:"chatRoomId"`
	SenderID   string `json:"senderId"`
	IsTyping   bool   `json:"isTyping"`
}

type sendMessageData struct {
	SenderID      string `json:"senderId"`
	ReceiverID    string `json:"receiverId"`
	Message       string `json:"message"`
	ReplyToID     string `json:"replyToId"`
	ForwardFromID string `json:"forwardFromId"`
}

type messageIDData struct {
	MessageID string `json:"messageId"`
}

type editMessageData struct {
	MessageID  string `json:"messageId"`
	NewMessage string `json:"newMessage"`
}

// messagePayload is a message broadcast to a room, content already
// decrypted, with decrypted reply/forward previews attached
type messagePayload struct {
	schemas.Message
	ReplyTo     *schemas.MessagePreview `json:"replyTo,omitempty"`
	ForwardFrom *schemas.MessagePreview `json:"forwardFrom,omitempty"`
}

// authorizeRoom enforces that the client is one of the two users encoded
// in the room id
func authorizeRoom(cl *Client, roomID string) error {
	if !db.IsRoomParticipant(roomID, cl.UserID) {
		return errors.ForbiddenError("not a participant of this room")
	}
	return nil
}

func (h *Hub) joinRoom(cl *Client, b []byte) error {
	data := new(roomData)
	jsoniter.Get(b, "data").ToVal(data)

	if err := authorizeRoom(cl, data.RoomID); err != nil {
		return err
	}
	h.Rooms.Join(data.RoomID, cl)
	return nil
}

func (h *Hub) leaveRoom(cl *Client, b []byte) error {
	data := new(roomData)
	jsoniter.Get(b, "data").ToVal(data)

	h.Rooms.Leave(data.RoomID, cl)
	return nil
}

// typing relays a transient indicator to the room; nothing is persisted
func (h *Hub) typing(cl *Client, b []byte) error {
	data := new(typingData)
	jsoniter.Get(b, "data").ToVal(data)

	if err := authorizeRoom(cl, data.ChatRoomID); err != nil {
		return err
	}
	data.SenderID = cl.UserID
	h.Rooms.Broadcast(data.ChatRoomID, "typing", data)
	return nil
}

// sendMessage validates, encrypts, persists, then broadcasts in that
// order; the sender additionally gets a message_sent ack
func (h *Hub) sendMessage(cl *Client, b []byte) error {
	data := new(sendMessageData)
	jsoniter.Get(b, "data").ToVal(data)

	if data.ReceiverID == "" || data.ReceiverID == cl.UserID {
		return errors.ValidationError("invalid receiver")
	}

	req := schemas.CreateMessageSchema{
		Message:       data.Message,
		ReplyToID:     data.ReplyToID,
		ForwardFromID: data.ForwardFromID,
	}
	if err := h.Validate.Struct(req); err != nil {
		return errors.ValidationError("message cannot be empty")
	}

	iv, ciphertext, err := h.Codec.Encrypt(data.Message)
	if err != nil {
		return err
	}

	id, err := helpers.NewID()
	if err != nil {
		return err
	}

	m := &schemas.Message{
		ID:            id,
		SenderID:      cl.UserID,
		ReceiverID:    data.ReceiverID,
		Content:       ciphertext,
		IV:            iv,
		ReplyToID:     data.ReplyToID,
		ForwardFromID: data.ForwardFromID,
	}
	if err = h.DB.CreateMessage(h.ctx(), m); err != nil {
		return err
	}

	payload := messagePayload{Message: *m}
	payload.Content = data.Message
	if m.ReplyToID != "" {
		payload.ReplyTo = h.preview(m.ReplyToID)
	}
	if m.ForwardFromID != "" {
		payload.ForwardFrom = h.preview(m.ForwardFromID)
	}

	h.Rooms.Broadcast(m.RoomID, "receive_message", payload)
	cl.Emit("message_sent", payload)

	// an offline or out-of-room receiver gets a notification instead;
	// the message itself already went out, so a failure here is logged
	// rather than surfaced to the sender
	receiver := h.Registry.Get(m.ReceiverID)
	if receiver == nil || !h.Rooms.Contains(m.RoomID, receiver) {
		n, err := h.DB.CreateNotification(h.ctx(), cl.UserID, m.ReceiverID, schemas.NotifMessage, "", "")
		if err != nil {
			h.Logger.Println("socket: message notification: " + err.Error())
		} else {
			h.PushNotification(m.ReceiverID, n)
		}
	}
	return nil
}

// preview decrypts a referenced message for reply/forward display;
// unreadable references degrade to an empty body
func (h *Hub) preview(messageID string) *schemas.MessagePreview {
	ref, err := h.DB.GetMessage(h.ctx(), messageID)
	if err != nil {
		return nil
	}
	p := &schemas.MessagePreview{MessageID: ref.ID, SenderID: ref.SenderID}
	if !ref.IsDeletedForEveryone {
		if plain, err := h.Codec.Decrypt(ref.Content, ref.IV); err == nil {
			p.Message = plain
		}
	}
	return p
}

// readMessage marks the message read and receipts the original sender's
// live connection only
func (h *Hub) readMessage(cl *Client, b []byte) error {
	data := new(messageIDData)
	jsoniter.Get(b, "data").ToVal(data)

	m, err := h.DB.MarkMessageRead(h.ctx(), data.MessageID)
	if err != nil {
		return err
	}
	if sender := h.Registry.Get(m.SenderID); sender != nil {
		sender.Emit("message_read", messageIDData{MessageID: m.ID})
	}
	return nil
}

// deleteMessage hides the message for the requesting user only
func (h *Hub) deleteMessage(cl *Client, b []byte) error {
	data := new(messageIDData)
	jsoniter.Get(b, "data").ToVal(data)

	if err := h.DB.DeleteMessageForUser(h.ctx(), data.MessageID, cl.UserID); err != nil {
		return err
	}
	cl.Emit("message_deleted_for_me", messageIDData{MessageID: data.MessageID})
	return nil
}

// deleteMessageForAll retracts the message for both sides inside the
// 24 hour window
func (h *Hub) deleteMessageForAll(cl *Client, b []byte) error {
	data := new(messageIDData)
	jsoniter.Get(b, "data").ToVal(data)

	m, err := h.DB.DeleteMessageForEveryone(h.ctx(), data.MessageID, cl.UserID)
	if err != nil {
		return err
	}
	h.Rooms.Broadcast(m.RoomID, "message_deleted_for_everyone", messageIDData{MessageID: m.ID})
	return nil
}

func (h *Hub) editMessage(cl *Client, b []byte) error {
	data := new(editMessageData)
	jsoniter.Get(b, "data").ToVal(data)

	req := schemas.EditMessageSchema{NewContent: data.NewMessage}
	if err := h.Validate.Struct(req); err != nil {
		return errors.ValidationError("message cannot be empty")
	}

	iv, ciphertext, err := h.Codec.Encrypt(data.NewMessage)
	if err != nil {
		return err
	}

	m, err := h.DB.EditMessage(h.ctx(), data.MessageID, cl.UserID, ciphertext, iv)
	if err != nil {
		return err
	}

	payload := messagePayload{Message: *m}
	payload.Content = data.NewMessage
	h.Rooms.Broadcast(m.RoomID, "message_edited", payload)
	return nil
}
