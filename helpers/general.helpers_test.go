package helpers

import (
	"strings"
	"testing"

	"LINKUP_server/db"
)

func TestNewIDNeverContainsRoomDelimiter(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("NewID: %v", err)
		}
		if strings.ContainsAny(id, "_-") {
			t.Fatalf("Generated id %q contains a room id delimiter character", id)
		}
		if seen[id] {
			t.Fatalf("Generated id %q twice", id)
		}
		seen[id] = true
	}
}

func TestGeneratedIDsResolveRoomMembership(t *testing.T) {
	a, err := NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	b, err := NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}
	outsider, err := NewID()
	if err != nil {
		t.Fatalf("NewID: %v", err)
	}

	roomID := db.RoomID(a, b)
	if !db.IsRoomParticipant(roomID, a) || !db.IsRoomParticipant(roomID, b) {
		t.Fatalf("Participants of room %q not recognized", roomID)
	}
	if db.IsRoomParticipant(roomID, outsider) {
		t.Fatalf("Outsider %q authorized for room %q", outsider, roomID)
	}
}
