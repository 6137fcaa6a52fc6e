package schemas

import "time"

// Message is a row of the messages table. Content and IV hold the
// hex-encoded ciphertext at rest; read paths overwrite Content with the
// decrypted text before returning it to a client.
type Message struct {
	ID                   string     `json:"id"`
	SenderID             string     `json:"senderId"`
	ReceiverID           string     `json:"receiverId"`
	RoomID               string     `json:"roomId"`
	Content              string     `json:"content"`
	IV                   string     `json:"-"`
	ReplyToID            string     `json:"replyToId,omitempty"`
	ForwardFromID        string     `json:"forwardFromId,omitempty"`
	IsEdited             bool       `json:"isEdited"`
	EditedAt             *time.Time `json:"editedAt,omitempty"`
	IsRead               bool       `json:"isRead"`
	IsDeletedForEveryone bool       `json:"isDeletedForEveryone"`
	DeletedFor           []string   `json:"deletedFor,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	DeletedAt            *time.Time `json:"deletedAt,omitempty"`
}

// CreateMessageSchema struct
type CreateMessageSchema struct {
	Message       string `json:"message" validate:"required,min=1"`
	ReplyToID     string `json:"replyToId"`
	ForwardFromID string `json:"forwardFromId"`
}

// EditMessageSchema struct
type EditMessageSchema struct {
	NewContent string `json:"newContent" validate:"required,min=1"`
}

// MessagePreview is the decrypted reply/forward reference attached to a
// broadcast message
type MessagePreview struct {
	MessageID string `json:"messageId"`
	SenderID  string `json:"senderId"`
	Message   string `json:"message"`
}
