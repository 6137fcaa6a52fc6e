package db

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// DB is the durable system of record. The session registry and room
// table are volatile caches on top of it; everything else lives here.
type DB struct {
	conn *sql.DB
}

// Querier is satisfied by both *sql.DB and *sql.Tx so store helpers can
// run standalone or inside a unit of work
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// New opens the database at path and initializes the schema
func New(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// WithTransaction runs fn as one atomic unit of work: every store
// mutation inside fn commits together or not at all. Used by the follow
// state machine and the message store alike.
func (db *DB) WithTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (db *DB) init() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			full_name TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			profile_pic TEXT NOT NULL DEFAULT '',
			is_private INTEGER NOT NULL DEFAULT 0,
			followers_count INTEGER NOT NULL DEFAULT 0,
			following_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS follows (
			follower_id TEXT NOT NULL REFERENCES users(id),
			following_id TEXT NOT NULL REFERENCES users(id),
			status TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE(follower_id, following_id)
		)`,
		`CREATE TABLE IF NOT EXISTS close_friends (
			user_id TEXT NOT NULL REFERENCES users(id),
			friend_id TEXT NOT NULL REFERENCES users(id),
			UNIQUE(user_id, friend_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			sender_id TEXT NOT NULL,
			receiver_id TEXT NOT NULL,
			room_id TEXT NOT NULL,
			content TEXT NOT NULL,
			iv TEXT NOT NULL,
			reply_to_id TEXT NOT NULL DEFAULT '',
			forward_from_id TEXT NOT NULL DEFAULT '',
			is_edited INTEGER NOT NULL DEFAULT 0,
			edited_at TIMESTAMP,
			is_read INTEGER NOT NULL DEFAULT 0,
			is_deleted_for_everyone INTEGER NOT NULL DEFAULT 0,
			deleted_for TEXT NOT NULL DEFAULT '[]',
			created_at TIMESTAMP NOT NULL,
			deleted_at TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room ON messages(room_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			sender_id TEXT NOT NULL,
			type TEXT NOT NULL,
			message TEXT NOT NULL,
			post_id TEXT NOT NULL DEFAULT '',
			story_id TEXT NOT NULL DEFAULT '',
			is_read INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			caption TEXT NOT NULL DEFAULT '',
			media TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS post_likes (
			post_id TEXT NOT NULL REFERENCES posts(id),
			user_id TEXT NOT NULL REFERENCES users(id),
			UNIQUE(post_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS post_comments (
			id TEXT PRIMARY KEY,
			post_id TEXT NOT NULL REFERENCES posts(id),
			user_id TEXT NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stories (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			media TEXT NOT NULL DEFAULT '',
			close_friends_only INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL,
			expires_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS story_views (
			story_id TEXT NOT NULL REFERENCES stories(id),
			viewer_id TEXT NOT NULL REFERENCES users(id),
			UNIQUE(story_id, viewer_id)
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
