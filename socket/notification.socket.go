package socket

import (
	"LINKUP_server/schemas"

	jsoniter "github.com/json-iterator/go"
)

type sendNotificationData struct {
	ReceiverID string `json:"receiverId"`
	Type       string `json:"type"`
	PostID     string `json:"postId"`
	StoryID    string `json:"storyId"`
}

type notificationIDData struct {
	NotificationID string `json:"notificationId"`
}

// PushNotification delivers a notification to the recipient's live
// connection, silently dropping it when the user is offline
func (h *Hub) PushNotification(userID string, n *schemas.Notification) {
	if n == nil {
		return
	}
	if cl := h.Registry.Get(userID); cl != nil {
		cl.Emit("receive_notification", n)
	}
}

func (h *Hub) sendNotification(cl *Client, b []byte) error {
	data := new(sendNotificationData)
	jsoniter.Get(b, "data").ToVal(data)

	n, err := h.DB.CreateNotification(h.ctx(), cl.UserID, data.ReceiverID, data.Type, data.PostID, data.StoryID)
	if err != nil {
		return err
	}
	h.PushNotification(data.ReceiverID, n)
	return nil
}

func (h *Hub) readNotification(cl *Client, b []byte) error {
	data := new(notificationIDData)
	jsoniter.Get(b, "data").ToVal(data)

	if err := h.DB.MarkNotificationRead(h.ctx(), cl.UserID, data.NotificationID); err != nil {
		return err
	}
	cl.Emit("notification_read", data)
	return nil
}

func (h *Hub) deleteNotification(cl *Client, b []byte) error {
	data := new(notificationIDData)
	jsoniter.Get(b, "data").ToVal(data)

	if err := h.DB.DeleteNotification(h.ctx(), cl.UserID, data.NotificationID); err != nil {
		return err
	}
	cl.Emit("notification_deleted", data)
	return nil
}
