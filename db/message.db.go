package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"LINKUP_server/errors"
	"LINKUP_server/schemas"
)

// DeleteForEveryoneWindow is the hard cutoff for delete-for-everyone;
// elapsed time at or past the cutoff counts as expired
const DeleteForEveryoneWindow = 24 * time.Hour

// RoomID derives the chat room id of a participant pair. It is a pure
// function of the unordered pair, so either side resolves the same room.
func RoomID(userA string, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return pair[0] + "_" + pair[1]
}

// IsRoomParticipant reports whether userID is one of the two
// participants encoded in roomID. Room membership is derived from the
// id, never stored; this also authorizes rooms with no messages yet.
func IsRoomParticipant(roomID string, userID string) bool {
	a, b, ok := splitRoomID(roomID)
	if !ok {
		return false
	}
	return userID == a || userID == b
}

func splitRoomID(roomID string) (string, string, bool) {
	parts := strings.SplitN(roomID, "_", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

const messageColumns = `id, sender_id, receiver_id, room_id, content, iv, reply_to_id,
	forward_from_id, is_edited, edited_at, is_read, is_deleted_for_everyone, deleted_for, created_at, deleted_at`

func scanMessage(scan func(dest ...interface{}) error) (*schemas.Message, error) {
	var m schemas.Message
	var deletedFor string
	err := scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.RoomID, &m.Content, &m.IV,
		&m.ReplyToID, &m.ForwardFromID, &m.IsEdited, &m.EditedAt, &m.IsRead,
		&m.IsDeletedForEveryone, &deletedFor, &m.CreatedAt, &m.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundError("Message not found")
	}
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal([]byte(deletedFor), &m.DeletedFor); err != nil {
		m.DeletedFor = nil
	}
	return &m, nil
}

// CreateMessage persists an encrypted message row. The room id is
// derived from the participant pair; CreatedAt is honored when already
// set so callers control the clock.
func (db *DB) CreateMessage(ctx context.Context, m *schemas.Message) error {

	m.RoomID = RoomID(m.SenderID, m.ReceiverID)
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO messages (id, sender_id, receiver_id, room_id, content, iv, reply_to_id, forward_from_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		m.ID, m.SenderID, m.ReceiverID, m.RoomID, m.Content, m.IV, m.ReplyToID, m.ForwardFromID, m.CreatedAt,
	)
	return err
}

// GetMessage gets one message row by id
func (db *DB) GetMessage(ctx context.Context, id string) (*schemas.Message, error) {
	return scanMessage(db.conn.QueryRowContext(ctx, `
		SELECT `+messageColumns+` FROM messages WHERE id = ? LIMIT 1;`, id).Scan)
}

// MessagesByRoom returns the room's full message log ascending by
// creation time. Content stays encrypted; the caller decrypts.
func (db *DB) MessagesByRoom(ctx context.Context, roomID string) ([]schemas.Message, error) {

	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+messageColumns+` FROM messages
		WHERE room_id = ?
		ORDER BY created_at ASC, id ASC;`,
		roomID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []schemas.Message{}
	for rows.Next() {
		m, err := scanMessage(rows.Scan)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *m)
	}
	return messages, rows.Err()
}

// EditMessage replaces the message body with freshly encrypted content
// and marks it edited; only the original author may
func (db *DB) EditMessage(ctx context.Context, messageID string, senderID string, content string, iv string) (*schemas.Message, error) {

	m, err := db.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.SenderID != senderID {
		return nil, errors.ForbiddenError("You can only edit your own messages")
	}

	editedAt := time.Now().UTC()

	_, err = db.conn.ExecContext(ctx, `
		UPDATE messages SET content = ?, iv = ?, is_edited = 1, edited_at = ? WHERE id = ?;`,
		content, iv, editedAt, messageID,
	)
	if err != nil {
		return nil, err
	}

	m.Content = content
	m.IV = iv
	m.IsEdited = true
	m.EditedAt = &editedAt
	return m, nil
}

// MarkMessageRead marks the message read and returns the row so the
// caller can receipt the original sender
func (db *DB) MarkMessageRead(ctx context.Context, messageID string) (*schemas.Message, error) {

	m, err := db.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}

	if !m.IsRead {
		if _, err = db.conn.ExecContext(ctx, `
			UPDATE messages SET is_read = 1 WHERE id = ?;`, messageID); err != nil {
			return nil, err
		}
		m.IsRead = true
	}
	return m, nil
}

// DeleteMessageForUser appends userID to the message's per-viewer
// suppression set. The row itself is untouched; other participants keep
// reading it. Read-modify-write of the set runs as one unit of work.
func (db *DB) DeleteMessageForUser(ctx context.Context, messageID string, userID string) error {

	return db.WithTransaction(ctx, func(tx *sql.Tx) error {

		m, err := scanMessage(tx.QueryRowContext(ctx, `
			SELECT `+messageColumns+` FROM messages WHERE id = ? LIMIT 1;`, messageID).Scan)
		if err != nil {
			return err
		}

		for _, id := range m.DeletedFor {
			if id == userID {
				return nil
			}
		}

		deletedFor, err := json.Marshal(append(m.DeletedFor, userID))
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE messages SET deleted_for = ? WHERE id = ?;`,
			string(deletedFor), messageID,
		)
		return err
	})
}

// DeleteMessageForEveryone marks the message permanently unavailable to
// all participants. Only the sender may, and only strictly inside the
// 24 hour window; elapsed >= 24h is expired, the boundary included.
// Returns the row so the caller can broadcast to its room.
func (db *DB) DeleteMessageForEveryone(ctx context.Context, messageID string, senderID string) (*schemas.Message, error) {

	m, err := db.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if m.SenderID != senderID {
		return nil, errors.ForbiddenError("You can only delete your own messages")
	}
	if m.IsDeletedForEveryone {
		return nil, errors.InvalidStateError("Message is already deleted")
	}
	if time.Since(m.CreatedAt) >= DeleteForEveryoneWindow {
		return nil, errors.ExpiredWindowError("Messages can only be deleted within 24 hours")
	}

	now := time.Now().UTC()
	_, err = db.conn.ExecContext(ctx, `
		UPDATE messages SET is_deleted_for_everyone = 1, deleted_at = ? WHERE id = ?;`,
		now, messageID,
	)
	if err != nil {
		return nil, err
	}

	m.IsDeletedForEveryone = true
	m.DeletedAt = &now
	return m, nil
}
