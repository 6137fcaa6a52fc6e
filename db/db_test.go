package db

import (
	"context"
	"os"
	"testing"
	"time"

	"LINKUP_server/schemas"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "linkup-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpfile.Close()
	os.Remove(tmpfile.Name())

	database, err := New(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}

	t.Cleanup(func() {
		database.Close()
		os.Remove(tmpfile.Name())
	})

	return database
}

func createTestUser(t *testing.T, database *DB, id string, private bool) *schemas.User {
	t.Helper()
	u := &schemas.User{
		ID:           id,
		Username:     "user_" + id,
		Email:        id + "@example.com",
		PasswordHash: "x",
		IsPrivate:    private,
		CreatedAt:    time.Now().UTC(),
	}
	if err := database.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", id, err)
	}
	return u
}

func counters(t *testing.T, database *DB, id string) (int, int) {
	t.Helper()
	u, err := database.GetUserByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetUserByID(%s): %v", id, err)
	}
	return u.FollowersCount, u.FollowingCount
}
