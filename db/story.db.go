package db

import (
	"context"
	"database/sql"
	"time"

	"LINKUP_server/errors"
	"LINKUP_server/schemas"
)

// StoryLifetime is how long a story stays visible
const StoryLifetime = 24 * time.Hour

// CreateStory inserts a story row expiring StoryLifetime after creation
func (db *DB) CreateStory(ctx context.Context, s *schemas.Story) error {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = s.CreatedAt.Add(StoryLifetime)
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO stories (id, user_id, media, close_friends_only, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?);`,
		s.ID, s.UserID, s.Media, s.CloseFriendsOnly, s.CreatedAt, s.ExpiresAt,
	)
	return err
}

// GetStory gets an unexpired story
func (db *DB) GetStory(ctx context.Context, storyID string) (*schemas.Story, error) {
	var s schemas.Story
	err := db.conn.QueryRowContext(ctx, `
		SELECT s.id, s.user_id, s.media, s.close_friends_only, s.created_at, s.expires_at,
			(SELECT count(*) FROM story_views WHERE story_id = s.id)
		FROM stories s WHERE s.id = ? AND s.expires_at > ? LIMIT 1;`,
		storyID, time.Now().UTC(),
	).Scan(&s.ID, &s.UserID, &s.Media, &s.CloseFriendsOnly, &s.CreatedAt, &s.ExpiresAt, &s.ViewsCount)
	if err != nil {
		return nil, errors.NotFoundError("Story not found")
	}
	return &s, nil
}

// StoriesByUser lists targetID's unexpired stories visible to
// requesterID: privacy rule first, close-friends-only stories only for
// the owner and their close friends
func (db *DB) StoriesByUser(ctx context.Context, requesterID string, targetID string) ([]schemas.Story, error) {

	target, err := db.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, errors.NotFoundError("Target user not found")
	}

	visible, err := db.CanViewUser(ctx, requesterID, target)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, errors.ForbiddenError("This profile is private")
	}

	includeCloseFriends := requesterID == targetID
	if !includeCloseFriends {
		includeCloseFriends, err = db.IsCloseFriend(ctx, targetID, requesterID)
		if err != nil {
			return nil, err
		}
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT s.id, s.user_id, s.media, s.close_friends_only, s.created_at, s.expires_at,
			(SELECT count(*) FROM story_views WHERE story_id = s.id)
		FROM stories s
		WHERE s.user_id = ? AND s.expires_at > ? AND (s.close_friends_only = 0 OR ?)
		ORDER BY s.created_at ASC, s.id;`,
		targetID, time.Now().UTC(), includeCloseFriends,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stories := []schemas.Story{}
	for rows.Next() {
		var s schemas.Story
		if err := rows.Scan(&s.ID, &s.UserID, &s.Media, &s.CloseFriendsOnly, &s.CreatedAt,
			&s.ExpiresAt, &s.ViewsCount); err != nil {
			return nil, err
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// ViewStory records a view once per viewer and raises a STORY_VIEW
// notification for the owner on the first view
func (db *DB) ViewStory(ctx context.Context, viewerID string, storyID string) (*schemas.Notification, error) {

	viewer, err := db.GetUserByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	story, err := db.GetStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story.UserID == viewerID {
		return nil, nil
	}

	var count int
	if err = db.conn.QueryRowContext(ctx, `
		SELECT count(*) FROM story_views WHERE story_id = ? AND viewer_id = ?;`,
		storyID, viewerID,
	).Scan(&count); err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	var notif *schemas.Notification
	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO story_views (story_id, viewer_id) VALUES (?, ?);`, storyID, viewerID); err != nil {
			return err
		}
		var err error
		notif, err = insertNotification(ctx, tx, viewerID, viewer.Username, story.UserID, schemas.NotifStoryView, "", storyID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return notif, nil
}

// DeleteStory removes a story and its views; owner only
func (db *DB) DeleteStory(ctx context.Context, userID string, storyID string) error {

	story, err := db.GetStory(ctx, storyID)
	if err != nil {
		return err
	}
	if story.UserID != userID {
		return errors.ForbiddenError("You can only delete your own stories")
	}

	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM story_views WHERE story_id = ?;`, storyID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM stories WHERE id = ?;`, storyID)
		return err
	})
}
