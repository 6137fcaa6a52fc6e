package db

import (
	"context"
	"database/sql"
	"time"

	"LINKUP_server/errors"
	"LINKUP_server/schemas"

	"github.com/aidarkhanov/nanoid/v2"
)

// CreatePost inserts a post row
func (db *DB) CreatePost(ctx context.Context, p *schemas.Post) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, caption, media, created_at) VALUES (?, ?, ?, ?, ?);`,
		p.ID, p.UserID, p.Caption, p.Media, p.CreatedAt,
	)
	return err
}

// GetPost gets a post with its like/comment counts
func (db *DB) GetPost(ctx context.Context, postID string) (*schemas.Post, error) {
	var p schemas.Post
	err := db.conn.QueryRowContext(ctx, `
		SELECT p.id, p.user_id, p.caption, p.media, p.created_at,
			(SELECT count(*) FROM post_likes WHERE post_id = p.id),
			(SELECT count(*) FROM post_comments WHERE post_id = p.id)
		FROM posts p WHERE p.id = ? LIMIT 1;`,
		postID,
	).Scan(&p.ID, &p.UserID, &p.Caption, &p.Media, &p.CreatedAt, &p.LikesCount, &p.CommentsCount)
	if err != nil {
		return nil, errors.NotFoundError("Post not found")
	}
	return &p, nil
}

// PostsByUser lists a user's posts, newest first
func (db *DB) PostsByUser(ctx context.Context, userID string) ([]schemas.Post, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT p.id, p.user_id, p.caption, p.media, p.created_at,
			(SELECT count(*) FROM post_likes WHERE post_id = p.id),
			(SELECT count(*) FROM post_comments WHERE post_id = p.id)
		FROM posts p WHERE p.user_id = ?
		ORDER BY p.created_at DESC, p.id;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []schemas.Post{}
	for rows.Next() {
		var p schemas.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Caption, &p.Media, &p.CreatedAt,
			&p.LikesCount, &p.CommentsCount); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CountPostsByUser counts a user's posts
func (db *DB) CountPostsByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `
		SELECT count(*) FROM posts WHERE user_id = ?;`, userID).Scan(&count)
	return count, err
}

// DeletePost removes a post and its likes and comments; owner only
func (db *DB) DeletePost(ctx context.Context, userID string, postID string) error {

	post, err := db.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return errors.ForbiddenError("You can only delete your own posts")
	}

	return db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_likes WHERE post_id = ?;`, postID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_comments WHERE post_id = ?;`, postID); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?;`, postID)
		return err
	})
}

// TogglePostLike likes or unlikes a post; a fresh like on someone
// else's post raises a LIKE notification. Returns whether the post is
// liked afterwards and the notification, if any.
func (db *DB) TogglePostLike(ctx context.Context, userID string, postID string) (bool, *schemas.Notification, error) {

	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return false, nil, err
	}
	post, err := db.GetPost(ctx, postID)
	if err != nil {
		return false, nil, err
	}

	var count int
	if err = db.conn.QueryRowContext(ctx, `
		SELECT count(*) FROM post_likes WHERE post_id = ? AND user_id = ?;`,
		postID, userID,
	).Scan(&count); err != nil {
		return false, nil, err
	}

	if count > 0 {
		_, err = db.conn.ExecContext(ctx, `
			DELETE FROM post_likes WHERE post_id = ? AND user_id = ?;`, postID, userID)
		return false, nil, err
	}

	var notif *schemas.Notification
	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO post_likes (post_id, user_id) VALUES (?, ?);`, postID, userID); err != nil {
			return err
		}
		if post.UserID == userID {
			return nil
		}
		var err error
		notif, err = insertNotification(ctx, tx, userID, user.Username, post.UserID, schemas.NotifLike, postID, "")
		return err
	})
	if err != nil {
		return false, nil, err
	}

	return true, notif, nil
}

// AddComment appends a comment to a post and raises a COMMENT
// notification for the post owner
func (db *DB) AddComment(ctx context.Context, userID string, postID string, content string) (*schemas.Comment, *schemas.Notification, error) {

	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	post, err := db.GetPost(ctx, postID)
	if err != nil {
		return nil, nil, err
	}

	id, err := nanoid.New()
	if err != nil {
		return nil, nil, err
	}

	comment := &schemas.Comment{
		ID:        id,
		PostID:    postID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		Author:    userSummary(user),
	}

	var notif *schemas.Notification
	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO post_comments (id, post_id, user_id, content, created_at)
			VALUES (?, ?, ?, ?, ?);`,
			comment.ID, comment.PostID, comment.UserID, comment.Content, comment.CreatedAt,
		); err != nil {
			return err
		}
		if post.UserID == userID {
			return nil
		}
		var err error
		notif, err = insertNotification(ctx, tx, userID, user.Username, post.UserID, schemas.NotifComment, postID, "")
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return comment, notif, nil
}

// ListComments returns a post's comments oldest first
func (db *DB) ListComments(ctx context.Context, postID string) ([]schemas.Comment, error) {

	if _, err := db.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.username, u.profile_pic
		FROM post_comments c JOIN users u ON u.id = c.user_id
		WHERE c.post_id = ?
		ORDER BY c.created_at ASC, c.id;`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []schemas.Comment{}
	for rows.Next() {
		var c schemas.Comment
		var author schemas.UserSummary
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt,
			&author.Username, &author.ProfilePic); err != nil {
			return nil, err
		}
		author.ID = c.UserID
		c.Author = &author
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
