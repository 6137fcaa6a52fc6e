package db

import (
	"context"
	"database/sql"
	"time"

	"LINKUP_server/errors"
	"LINKUP_server/schemas"
)

const userColumns = `id, username, email, password_hash, full_name, bio, profile_pic,
	is_private, followers_count, following_count, created_at`

func scanUser(row *sql.Row) (*schemas.User, error) {
	var u schemas.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FullName, &u.Bio,
		&u.ProfilePic, &u.IsPrivate, &u.FollowersCount, &u.FollowingCount, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundError("User not found")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user row
func (db *DB) CreateUser(ctx context.Context, u *schemas.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, full_name, bio, profile_pic, is_private, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.FullName, u.Bio, u.ProfilePic, u.IsPrivate, u.CreatedAt,
	)
	return err
}

// GetUserByID gets a user by id
func (db *DB) GetUserByID(ctx context.Context, id string) (*schemas.User, error) {
	return getUser(ctx, db.conn, id)
}

func getUser(ctx context.Context, q Querier, id string) (*schemas.User, error) {
	return scanUser(q.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1;`, id))
}

// GetUserByEmail gets a user by email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*schemas.User, error) {
	return scanUser(db.conn.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1;`, email))
}

// GetUserByUsername gets a user by username
func (db *DB) GetUserByUsername(ctx context.Context, username string) (*schemas.User, error) {
	return scanUser(db.conn.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE username = ? LIMIT 1;`, username))
}

// UsernameExists checks whether a username is taken
func (db *DB) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `
		SELECT count(*) FROM users WHERE username = ?;`, username).Scan(&count)
	return count > 0, err
}

// EmailExists checks whether an email is taken
func (db *DB) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `
		SELECT count(*) FROM users WHERE email = ?;`, email).Scan(&count)
	return count > 0, err
}

// UpdateProfile applies the non-nil fields of req to the user row and
// optionally replaces the profile picture
func (db *DB) UpdateProfile(ctx context.Context, userID string, req *schemas.UpdateProfileSchema, profilePic *string) (*schemas.User, error) {

	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if profilePic != nil {
		user.ProfilePic = *profilePic
	}

	_, err = db.conn.ExecContext(ctx, `
		UPDATE users SET username = ?, full_name = ?, email = ?, bio = ?, profile_pic = ?
		WHERE id = ?;`,
		user.Username, user.FullName, user.Email, user.Bio, user.ProfilePic, userID,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// TogglePrivate flips the privacy flag and returns the new value
func (db *DB) TogglePrivate(ctx context.Context, userID string) (bool, error) {

	user, err := db.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}

	_, err = db.conn.ExecContext(ctx, `
		UPDATE users SET is_private = ? WHERE id = ?;`,
		!user.IsPrivate, userID,
	)
	if err != nil {
		return false, err
	}

	return !user.IsPrivate, nil
}

// SearchUsers finds users whose username contains q
func (db *DB) SearchUsers(ctx context.Context, q string, limit int) ([]schemas.UserSummary, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, username, profile_pic FROM users
		WHERE username LIKE '%' || ? || '%'
		ORDER BY username ASC LIMIT ?;`,
		q, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

func scanSummaries(rows *sql.Rows) ([]schemas.UserSummary, error) {
	summaries := []schemas.UserSummary{}
	for rows.Next() {
		var s schemas.UserSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.ProfilePic); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func userSummary(u *schemas.User) *schemas.UserSummary {
	return &schemas.UserSummary{ID: u.ID, Username: u.Username, ProfilePic: u.ProfilePic}
}
