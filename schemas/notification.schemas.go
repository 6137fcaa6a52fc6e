package schemas

import "time"

// Notification types
const (
	NotifFollow          = "FOLLOW"
	NotifFollowRequest   = "FOLLOW_REQUEST"
	NotifRequestAccepted = "REQUEST_ACCEPTED"
	NotifRequestRejected = "REQUEST_REJECTED"
	NotifLike            = "LIKE"
	NotifComment         = "COMMENT"
	NotifMessage         = "MESSAGE"
	NotifStoryView       = "STORY_VIEW"
)

// Notification is a row of the notifications table; UserID is the
// recipient
type Notification struct {
	ID        string       `json:"id"`
	UserID    string       `json:"userId"`
	SenderID  string       `json:"senderId"`
	Type      string       `json:"type"`
	Message   string       `json:"message"`
	PostID    string       `json:"postId,omitempty"`
	StoryID   string       `json:"storyId,omitempty"`
	IsRead    bool         `json:"isRead"`
	CreatedAt time.Time    `json:"createdAt"`
	Sender    *UserSummary `json:"sender,omitempty"`
}
