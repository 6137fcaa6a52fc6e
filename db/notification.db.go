package db

import (
	"context"
	"time"

	"LINKUP_server/errors"
	"LINKUP_server/schemas"

	"github.com/aidarkhanov/nanoid/v2"
)

func notificationText(senderUsername string, notifType string) (string, error) {
	switch notifType {
	case schemas.NotifFollow:
		return senderUsername + " started following you.", nil
	case schemas.NotifFollowRequest:
		return senderUsername + " sent you a follow request.", nil
	case schemas.NotifRequestAccepted:
		return senderUsername + " accepted your follow request.", nil
	case schemas.NotifRequestRejected:
		return senderUsername + " rejected your follow request.", nil
	case schemas.NotifLike:
		return senderUsername + " liked your post.", nil
	case schemas.NotifComment:
		return senderUsername + " commented on your post.", nil
	case schemas.NotifMessage:
		return senderUsername + " sent you a message.", nil
	case schemas.NotifStoryView:
		return senderUsername + " viewed your story.", nil
	}
	return "", errors.ValidationError("Invalid notification type")
}

// insertNotification composes the notification text and inserts the row
// through q, so callers can make it part of a larger unit of work
func insertNotification(ctx context.Context, q Querier, senderID string, senderUsername string, receiverID string, notifType string, postID string, storyID string) (*schemas.Notification, error) {

	message, err := notificationText(senderUsername, notifType)
	if err != nil {
		return nil, err
	}

	id, err := nanoid.New()
	if err != nil {
		return nil, err
	}

	n := &schemas.Notification{
		ID:        id,
		UserID:    receiverID,
		SenderID:  senderID,
		Type:      notifType,
		Message:   message,
		PostID:    postID,
		StoryID:   storyID,
		CreatedAt: time.Now().UTC(),
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, sender_id, type, message, post_id, story_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?);`,
		n.ID, n.UserID, n.SenderID, n.Type, n.Message, n.PostID, n.StoryID, n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return n, nil
}

// CreateNotification verifies both parties exist and persists a
// notification for receiverID
func (db *DB) CreateNotification(ctx context.Context, senderID string, receiverID string, notifType string, postID string, storyID string) (*schemas.Notification, error) {

	sender, err := db.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, errors.NotFoundError("Sender not found")
	}
	if _, err = db.GetUserByID(ctx, receiverID); err != nil {
		return nil, errors.NotFoundError("Receiver not found")
	}

	n, err := insertNotification(ctx, db.conn, senderID, sender.Username, receiverID, notifType, postID, storyID)
	if err != nil {
		return nil, err
	}
	n.Sender = userSummary(sender)
	return n, nil
}

// ListNotifications returns the user's notifications, newest first
func (db *DB) ListNotifications(ctx context.Context, userID string) ([]schemas.Notification, error) {

	rows, err := db.conn.QueryContext(ctx, `
		SELECT n.id, n.user_id, n.sender_id, n.type, n.message, n.post_id, n.story_id, n.is_read, n.created_at,
			u.username, u.profile_pic
		FROM notifications n JOIN users u ON u.id = n.sender_id
		WHERE n.user_id = ?
		ORDER BY n.created_at DESC, n.id DESC;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := []schemas.Notification{}
	for rows.Next() {
		var n schemas.Notification
		var sender schemas.UserSummary
		if err := rows.Scan(&n.ID, &n.UserID, &n.SenderID, &n.Type, &n.Message, &n.PostID,
			&n.StoryID, &n.IsRead, &n.CreatedAt, &sender.Username, &sender.ProfilePic); err != nil {
			return nil, err
		}
		sender.ID = n.SenderID
		n.Sender = &sender
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (db *DB) getNotification(ctx context.Context, id string) (*schemas.Notification, error) {
	var n schemas.Notification
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, user_id, sender_id, type, message, post_id, story_id, is_read, created_at
		FROM notifications WHERE id = ? LIMIT 1;`, id).
		Scan(&n.ID, &n.UserID, &n.SenderID, &n.Type, &n.Message, &n.PostID, &n.StoryID, &n.IsRead, &n.CreatedAt)
	if err != nil {
		return nil, errors.NotFoundError("Notification not found")
	}
	return &n, nil
}

// MarkNotificationRead marks a notification read; only its recipient may
func (db *DB) MarkNotificationRead(ctx context.Context, userID string, notificationID string) error {

	n, err := db.getNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return errors.ForbiddenError("You can only mark your own notifications as read")
	}

	_, err = db.conn.ExecContext(ctx, `
		UPDATE notifications SET is_read = 1 WHERE id = ?;`, notificationID)
	return err
}

// DeleteNotification removes a notification; only its sender may
func (db *DB) DeleteNotification(ctx context.Context, userID string, notificationID string) error {

	n, err := db.getNotification(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.SenderID != userID {
		return errors.ForbiddenError("You can only delete your own notifications")
	}

	_, err = db.conn.ExecContext(ctx, `
		DELETE FROM notifications WHERE id = ?;`, notificationID)
	return err
}
