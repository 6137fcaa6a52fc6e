package db

import (
	"context"
	"database/sql"
	"time"

	"LINKUP_server/errors"
	"LINKUP_server/schemas"
)

// EdgeStatus returns the status of the edge follower->following, or ""
// if no edge exists
func (db *DB) EdgeStatus(ctx context.Context, followerID string, followingID string) (string, error) {
	return edgeStatus(ctx, db.conn, followerID, followingID)
}

func edgeStatus(ctx context.Context, q Querier, followerID string, followingID string) (string, error) {
	var status string
	err := q.QueryRowContext(ctx, `
		SELECT status FROM follows WHERE follower_id = ? AND following_id = ? LIMIT 1;`,
		followerID, followingID,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return status, err
}

// applyCounterDelta moves the denormalized counters of both ends of an
// edge. Counters are floored at zero; they must never go negative.
func applyCounterDelta(ctx context.Context, q Querier, followerID string, followingID string, delta int) error {
	_, err := q.ExecContext(ctx, `
		UPDATE users SET following_count = MAX(following_count + ?, 0) WHERE id = ?;`,
		delta, followerID,
	)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		UPDATE users SET followers_count = MAX(followers_count + ?, 0) WHERE id = ?;`,
		delta, followingID,
	)
	return err
}

// ToggleFollow follows or unfollows targetID on behalf of userID. An
// existing edge of any status is removed; counters are only decremented
// when the removed edge was ACCEPTED, since PENDING and REJECTED edges
// were never counted. A new edge is PENDING toward a private target and
// ACCEPTED otherwise. Edge, counters and notification commit as one
// unit of work.
func (db *DB) ToggleFollow(ctx context.Context, userID string, targetID string) (*schemas.FollowChange, error) {

	if userID == targetID {
		return nil, errors.ValidationError("You cannot follow yourself")
	}

	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	target, err := db.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, errors.NotFoundError("Target user not found")
	}

	change := &schemas.FollowChange{}

	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {

		status, err := edgeStatus(ctx, tx, userID, targetID)
		if err != nil {
			return err
		}

		if status != "" {
			if _, err = tx.ExecContext(ctx, `
				DELETE FROM follows WHERE follower_id = ? AND following_id = ?;`,
				userID, targetID,
			); err != nil {
				return err
			}
			if status == schemas.FollowAccepted {
				if err = applyCounterDelta(ctx, tx, userID, targetID, -1); err != nil {
					return err
				}
			}
			return nil
		}

		newStatus := schemas.FollowAccepted
		notifType := schemas.NotifFollow
		if target.IsPrivate {
			newStatus = schemas.FollowPending
			notifType = schemas.NotifFollowRequest
		}

		if _, err = tx.ExecContext(ctx, `
			INSERT INTO follows (follower_id, following_id, status, created_at)
			VALUES (?, ?, ?, ?);`,
			userID, targetID, newStatus, time.Now().UTC(),
		); err != nil {
			return err
		}

		if newStatus == schemas.FollowAccepted {
			if err = applyCounterDelta(ctx, tx, userID, targetID, 1); err != nil {
				return err
			}
		}

		notif, err := insertNotification(ctx, tx, userID, user.Username, targetID, notifType, "", "")
		if err != nil {
			return err
		}

		change.Following = true
		change.Status = newStatus
		change.Notification = notif
		return nil
	})
	if err != nil {
		return nil, err
	}

	return change, nil
}

// AcceptRequest transitions the pending edge followerID->userID to
// ACCEPTED, counts it, and raises a REQUEST_ACCEPTED notification for
// the follower. Transactional.
func (db *DB) AcceptRequest(ctx context.Context, userID string, followerID string) (*schemas.Notification, error) {
	return db.resolveRequest(ctx, userID, followerID, schemas.FollowAccepted)
}

// RejectRequest transitions the pending edge followerID->userID to
// REJECTED; no counters move. Transactional.
func (db *DB) RejectRequest(ctx context.Context, userID string, followerID string) (*schemas.Notification, error) {
	return db.resolveRequest(ctx, userID, followerID, schemas.FollowRejected)
}

func (db *DB) resolveRequest(ctx context.Context, userID string, followerID string, newStatus string) (*schemas.Notification, error) {

	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var notif *schemas.Notification

	err = db.WithTransaction(ctx, func(tx *sql.Tx) error {

		status, err := edgeStatus(ctx, tx, followerID, userID)
		if err != nil {
			return err
		}
		if status == "" {
			return errors.NotFoundError("Follow request not found")
		}
		if status != schemas.FollowPending {
			return errors.InvalidStateError("Follow request is not pending")
		}

		if _, err = tx.ExecContext(ctx, `
			UPDATE follows SET status = ? WHERE follower_id = ? AND following_id = ?;`,
			newStatus, followerID, userID,
		); err != nil {
			return err
		}

		notifType := schemas.NotifRequestRejected
		if newStatus == schemas.FollowAccepted {
			notifType = schemas.NotifRequestAccepted
			if err = applyCounterDelta(ctx, tx, followerID, userID, 1); err != nil {
				return err
			}
		}

		notif, err = insertNotification(ctx, tx, userID, user.Username, followerID, notifType, "", "")
		return err
	})
	if err != nil {
		return nil, err
	}

	return notif, nil
}

// ListRequests returns the pending follow requests toward userID as
// follower summaries. An empty result is normal.
func (db *DB) ListRequests(ctx context.Context, userID string) ([]schemas.UserSummary, error) {

	if _, err := db.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.username, u.profile_pic
		FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = ? AND f.status = ?
		ORDER BY f.created_at DESC, u.id;`,
		userID, schemas.FollowPending,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// MutualFollowers intersects the users userID follows with the users
// following targetID, ACCEPTED edges only
func (db *DB) MutualFollowers(ctx context.Context, userID string, targetID string) ([]schemas.UserSummary, error) {

	if _, err := db.GetUserByID(ctx, targetID); err != nil {
		return nil, errors.NotFoundError("Target user not found")
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.username, u.profile_pic
		FROM users u
		JOIN follows f1 ON f1.following_id = u.id AND f1.follower_id = ? AND f1.status = ?
		JOIN follows f2 ON f2.follower_id = u.id AND f2.following_id = ? AND f2.status = ?
		ORDER BY u.username, u.id;`,
		userID, schemas.FollowAccepted, targetID, schemas.FollowAccepted,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// SuggestedUsers unions follows-of-follows (ranked by how many of the
// requester's follows follow them) with a most-recently-created
// fallback, excluding self and anyone already followed or requested.
// Order is deterministic for a fixed snapshot.
func (db *DB) SuggestedUsers(ctx context.Context, userID string, limit int) ([]schemas.UserSummary, error) {

	if limit <= 0 {
		limit = 10
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.username, u.profile_pic
		FROM follows f1
		JOIN follows f2 ON f2.follower_id = f1.following_id
		JOIN users u ON u.id = f2.following_id
		WHERE f1.follower_id = ? AND f1.status = ? AND f2.status = ?
			AND f2.following_id != ?
			AND f2.following_id NOT IN (SELECT following_id FROM follows WHERE follower_id = ?)
		GROUP BY u.id
		ORDER BY count(*) DESC, u.id
		LIMIT ?;`,
		userID, schemas.FollowAccepted, schemas.FollowAccepted, userID, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	suggestions, err := scanSummaries(rows)
	if err != nil {
		return nil, err
	}

	if len(suggestions) >= limit {
		return suggestions[:limit], nil
	}

	seen := make(map[string]bool, len(suggestions))
	for _, s := range suggestions {
		seen[s.ID] = true
	}

	fallback, err := db.conn.QueryContext(ctx, `
		SELECT id, username, profile_pic FROM users
		WHERE id != ? AND id NOT IN (SELECT following_id FROM follows WHERE follower_id = ?)
		ORDER BY created_at DESC, id
		LIMIT ?;`,
		userID, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer fallback.Close()

	recent, err := scanSummaries(fallback)
	if err != nil {
		return nil, err
	}

	for _, s := range recent {
		if len(suggestions) == limit {
			break
		}
		if !seen[s.ID] {
			seen[s.ID] = true
			suggestions = append(suggestions, s)
		}
	}

	return suggestions, nil
}

// CanViewUser applies the privacy rule: a private target is visible to
// themselves and to accepted followers only
func (db *DB) CanViewUser(ctx context.Context, requesterID string, target *schemas.User) (bool, error) {
	if !target.IsPrivate || requesterID == target.ID {
		return true, nil
	}
	status, err := db.EdgeStatus(ctx, requesterID, target.ID)
	if err != nil {
		return false, err
	}
	return status == schemas.FollowAccepted, nil
}

// Followers lists the accepted followers of targetID, subject to the
// privacy rule
func (db *DB) Followers(ctx context.Context, requesterID string, targetID string) ([]schemas.UserSummary, error) {
	return db.listEdgeSummaries(ctx, requesterID, targetID, `
		SELECT u.id, u.username, u.profile_pic
		FROM follows f JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = ? AND f.status = ?
		ORDER BY u.username, u.id;`)
}

// Following lists who targetID follows (accepted), subject to the
// privacy rule
func (db *DB) Following(ctx context.Context, requesterID string, targetID string) ([]schemas.UserSummary, error) {
	return db.listEdgeSummaries(ctx, requesterID, targetID, `
		SELECT u.id, u.username, u.profile_pic
		FROM follows f JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = ? AND f.status = ?
		ORDER BY u.username, u.id;`)
}

func (db *DB) listEdgeSummaries(ctx context.Context, requesterID string, targetID string, query string) ([]schemas.UserSummary, error) {

	target, err := db.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, errors.NotFoundError("Target user not found")
	}

	visible, err := db.CanViewUser(ctx, requesterID, target)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, errors.ForbiddenError("You are not following this user")
	}

	rows, err := db.conn.QueryContext(ctx, query, targetID, schemas.FollowAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// RemoveFollower deletes the accepted edge followerID->userID and
// decrements both counters as one unit of work
func (db *DB) RemoveFollower(ctx context.Context, userID string, followerID string) error {

	if _, err := db.GetUserByID(ctx, userID); err != nil {
		return err
	}
	if _, err := db.GetUserByID(ctx, followerID); err != nil {
		return errors.NotFoundError("Follower not found")
	}

	return db.WithTransaction(ctx, func(tx *sql.Tx) error {

		status, err := edgeStatus(ctx, tx, followerID, userID)
		if err != nil {
			return err
		}
		if status != schemas.FollowAccepted {
			return errors.ValidationError("Target user is not a follower of you")
		}

		if _, err = tx.ExecContext(ctx, `
			DELETE FROM follows WHERE follower_id = ? AND following_id = ?;`,
			followerID, userID,
		); err != nil {
			return err
		}

		return applyCounterDelta(ctx, tx, followerID, userID, -1)
	})
}

// ToggleCloseFriend adds or removes targetID from userID's close
// friends; the target must be followed (accepted when private).
// Returns whether the target is a close friend afterwards.
func (db *DB) ToggleCloseFriend(ctx context.Context, userID string, targetID string) (bool, error) {

	if userID == targetID {
		return false, errors.ValidationError("You cannot add yourself as a close friend")
	}

	target, err := db.GetUserByID(ctx, targetID)
	if err != nil {
		return false, errors.NotFoundError("Target user not found")
	}

	status, err := db.EdgeStatus(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	if status == "" {
		return false, errors.ValidationError("You are not following this user")
	}
	if target.IsPrivate && status != schemas.FollowAccepted {
		return false, errors.ValidationError("You are not a follower of this user")
	}

	var count int
	if err = db.conn.QueryRowContext(ctx, `
		SELECT count(*) FROM close_friends WHERE user_id = ? AND friend_id = ?;`,
		userID, targetID,
	).Scan(&count); err != nil {
		return false, err
	}

	if count > 0 {
		_, err = db.conn.ExecContext(ctx, `
			DELETE FROM close_friends WHERE user_id = ? AND friend_id = ?;`,
			userID, targetID,
		)
		return false, err
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO close_friends (user_id, friend_id) VALUES (?, ?);`,
		userID, targetID,
	)
	return true, err
}

// CloseFriends lists userID's close friends
func (db *DB) CloseFriends(ctx context.Context, userID string) ([]schemas.UserSummary, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.username, u.profile_pic
		FROM close_friends cf JOIN users u ON u.id = cf.friend_id
		WHERE cf.user_id = ?
		ORDER BY u.username, u.id;`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// IsCloseFriend reports whether viewerID is in ownerID's close friends
func (db *DB) IsCloseFriend(ctx context.Context, ownerID string, viewerID string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `
		SELECT count(*) FROM close_friends WHERE user_id = ? AND friend_id = ?;`,
		ownerID, viewerID,
	).Scan(&count)
	return count > 0, err
}
