package socket

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"testing"

	"LINKUP_server/crypt"
	"LINKUP_server/db"
	"LINKUP_server/schemas"

	jsoniter "github.com/json-iterator/go"
)

type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
}

func (f *fakeConn) WriteMessage(mt int, b []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	frame := make([]byte, len(b))
	copy(frame, b)
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	return 0, nil, io.EOF
}

func (f *fakeConn) events() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, frame := range f.frames {
		names = append(names, jsoniter.Get(frame, "event").ToString())
	}
	return names
}

func (f *fakeConn) last(event string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.frames) - 1; i >= 0; i-- {
		if jsoniter.Get(f.frames[i], "event").ToString() == event {
			return f.frames[i]
		}
	}
	return nil
}

func (f *fakeConn) count(event string) int {
	n := 0
	for _, name := range f.events() {
		if name == event {
			n++
		}
	}
	return n
}

func newTestHub(t *testing.T) *Hub {
	t.Helper()

	tmpfile, err := os.CreateTemp("", "linkup-socket-test-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tmpfile.Close()
	os.Remove(tmpfile.Name())

	database, err := db.New(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
		os.Remove(tmpfile.Name())
	})

	codec, err := crypt.NewCodec(strings.Repeat("ab", 32))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	return NewHub(database, codec)
}

func createUser(t *testing.T, h *Hub, id string) {
	t.Helper()
	err := h.DB.CreateUser(context.Background(), &schemas.User{
		ID:           id,
		Username:     "user_" + id,
		Email:        id + "@example.com",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", id, err)
	}
}

func connect(t *testing.T, h *Hub, userID string) (*Client, *fakeConn) {
	t.Helper()
	conn := &fakeConn{}
	cl := NewClient(conn, userID, "user_"+userID)
	h.Registry.Bind(cl)
	return cl, conn
}

func envelope(t *testing.T, event string, data interface{}) []byte {
	t.Helper()
	b, err := jsoniter.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		t.Fatalf("marshal %s: %v", event, err)
	}
	return b
}

func TestRegistryLastWriterWins(t *testing.T) {
	r := NewRegistry()

	first := NewClient(&fakeConn{}, "1", "a")
	second := NewClient(&fakeConn{}, "1", "a")

	r.Bind(first)
	r.Bind(second)
	if r.Get("1") != second {
		t.Fatal("Expected second connection to displace the first")
	}

	r.Unbind(first)
	if r.Get("1") != second {
		t.Fatal("Unbinding a displaced connection must not remove the current one")
	}

	r.Unbind(second)
	if r.Get("1") != nil {
		t.Fatal("Expected no connection after unbind")
	}
}

func TestRegistryConcurrentBind(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprint(n % 8)
			cl := NewClient(&fakeConn{}, id, "u")
			r.Bind(cl)
			r.Get(id)
			r.Unbind(cl)
		}(i)
	}
	wg.Wait()
}

func TestSendMessageBroadcast(t *testing.T) {
	h := newTestHub(t)
	createUser(t, h, "1")
	createUser(t, h, "2")

	sender, senderConn := connect(t, h, "1")
	receiver, receiverConn := connect(t, h, "2")

	roomID := db.RoomID("1", "2")
	h.dispatch(sender, envelope(t, "join_room", roomData{RoomID: roomID}))
	h.dispatch(receiver, envelope(t, "join_room", roomData{RoomID: roomID}))

	h.dispatch(sender, envelope(t, "send_message", sendMessageData{
		ReceiverID: "2",
		Message:    "hello there",
	}))

	for _, conn := range []*fakeConn{senderConn, receiverConn} {
		frame := conn.last("receive_message")
		if frame == nil {
			t.Fatal("Expected receive_message on both connections")
		}
		if got := jsoniter.Get(frame, "data", "content").ToString(); got != "hello there" {
			t.Fatalf("Expected decrypted content, got %q", got)
		}
	}

	if senderConn.count("message_sent") != 1 {
		t.Fatal("Expected message_sent ack on the sender connection")
	}
	if receiverConn.count("message_sent") != 0 {
		t.Fatal("message_sent must only go to the sender")
	}

	// at rest the row holds ciphertext, not the plaintext
	msgs, err := h.DB.MessagesByRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("MessagesByRoom: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("Expected 1 persisted message, got %d", len(msgs))
	}
	if msgs[0].Content == "hello there" {
		t.Fatal("Expected message to be stored encrypted")
	}
	if plain, err := h.Codec.Decrypt(msgs[0].Content, msgs[0].IV); err != nil || plain != "hello there" {
		t.Fatalf("Expected stored ciphertext to decrypt, got %q, %v", plain, err)
	}
}

func TestSendMessageEmptyRejected(t *testing.T) {
	h := newTestHub(t)
	createUser(t, h, "1")
	createUser(t, h, "2")

	sender, senderConn := connect(t, h, "1")
	_, receiverConn := connect(t, h, "2")

	roomID := db.RoomID("1", "2")
	h.dispatch(sender, envelope(t, "join_room", roomData{RoomID: roomID}))

	h.dispatch(sender, envelope(t, "send_message", sendMessageData{
		ReceiverID: "2",
		Message:    "",
	}))

	if senderConn.count("error") != 1 {
		t.Fatal("Expected a scoped error event on the sender connection")
	}
	if len(receiverConn.events()) != 0 {
		t.Fatal("A failed send must not reach any other connection")
	}

	msgs, err := h.DB.MessagesByRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("MessagesByRoom: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatal("A rejected message must not be persisted")
	}
}

func TestJoinRoomRequiresParticipant(t *testing.T) {
	h := newTestHub(t)
	createUser(t, h, "3")

	intruder, conn := connect(t, h, "3")
	h.dispatch(intruder, envelope(t, "join_room", roomData{RoomID: db.RoomID("1", "2")}))

	if conn.count("error") != 1 {
		t.Fatal("Expected an error event for a room the user is not encoded in")
	}
	if h.Rooms.Contains(db.RoomID("1", "2"), intruder) {
		t.Fatal("Unauthorized client must not be in the room")
	}
}

func TestReadReceiptTargetsSenderConnection(t *testing.T) {
	h := newTestHub(t)
	createUser(t, h, "1")
	createUser(t, h, "2")

	sender, senderConn := connect(t, h, "1")
	receiver, receiverConn := connect(t, h, "2")

	roomID := db.RoomID("1", "2")
	h.dispatch(sender, envelope(t, "join_room", roomData{RoomID: roomID}))
	h.dispatch(receiver, envelope(t, "join_room", roomData{RoomID: roomID}))

	h.dispatch(sender, envelope(t, "send_message", sendMessageData{
		ReceiverID: "2",
		Message:    "seen yet?",
	}))

	msgID := jsoniter.Get(senderConn.last("message_sent"), "data", "id").ToString()
	if msgID == "" {
		t.Fatal("Expected the ack to carry the message id")
	}

	h.dispatch(receiver, envelope(t, "read_message", messageIDData{MessageID: msgID}))

	if senderConn.count("message_read") != 1 {
		t.Fatal("Expected message_read on the sender connection")
	}
	if receiverConn.count("message_read") != 0 {
		t.Fatal("message_read must only go to the sender's connection")
	}

	m, err := h.DB.GetMessage(context.Background(), msgID)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if !m.IsRead {
		t.Fatal("Expected the message to be marked read")
	}
}

func TestDeleteForEveryoneBroadcast(t *testing.T) {
	h := newTestHub(t)
	createUser(t, h, "1")
	createUser(t, h, "2")

	sender, senderConn := connect(t, h, "1")
	receiver, receiverConn := connect(t, h, "2")

	roomID := db.RoomID("1", "2")
	h.dispatch(sender, envelope(t, "join_room", roomData{RoomID: roomID}))
	h.dispatch(receiver, envelope(t, "join_room", roomData{RoomID: roomID}))

	h.dispatch(sender, envelope(t, "send_message", sendMessageData{
		ReceiverID: "2",
		Message:    "retract me",
	}))
	msgID := jsoniter.Get(senderConn.last("message_sent"), "data", "id").ToString()

	// only the author may retract
	h.dispatch(receiver, envelope(t, "delete_message_for_all", messageIDData{MessageID: msgID}))
	if receiverConn.count("error") != 1 {
		t.Fatal("Expected an error when a non-author retracts")
	}

	h.dispatch(sender, envelope(t, "delete_message_for_all", messageIDData{MessageID: msgID}))
	if senderConn.count("message_deleted_for_everyone") != 1 || receiverConn.count("message_deleted_for_everyone") != 1 {
		t.Fatal("Expected message_deleted_for_everyone on both connections")
	}
}

func TestDeleteForSelfAcksOnlyRequester(t *testing.T) {
	h := newTestHub(t)
	createUser(t, h, "1")
	createUser(t, h, "2")

	sender, senderConn := connect(t, h, "1")
	receiver, receiverConn := connect(t, h, "2")

	roomID := db.RoomID("1", "2")
	h.dispatch(sender, envelope(t, "join_room", roomData{RoomID: roomID}))
	h.dispatch(receiver, envelope(t, "join_room", roomData{RoomID: roomID}))

	h.dispatch(sender, envelope(t, "send_message", sendMessageData{
		ReceiverID: "2",
		Message:    "only for you",
	}))
	msgID := jsoniter.Get(senderConn.last("message_sent"), "data", "id").ToString()

	h.dispatch(receiver, envelope(t, "delete_message", messageIDData{MessageID: msgID}))

	if receiverConn.count("message_deleted_for_me") != 1 {
		t.Fatal("Expected message_deleted_for_me ack on the requesting connection")
	}
	if senderConn.count("message_deleted_for_me") != 0 {
		t.Fatal("Delete-for-self must not be announced to the other side")
	}
}

func TestEditMessageBroadcast(t *testing.T) {
	h := newTestHub(t)
	createUser(t, h, "1")
	createUser(t, h, "2")

	sender, senderConn := connect(t, h, "1")
	receiver, receiverConn := connect(t, h, "2")

	roomID := db.RoomID("1", "2")
	h.dispatch(sender, envelope(t, "join_room", roomData{RoomID: roomID}))
	h.dispatch(receiver, envelope(t, "join_room", roomData{RoomID: roomID}))

	h.dispatch(sender, envelope(t, "send_message", sendMessageData{
		ReceiverID: "2",
		Message:    "first draft",
	}))
	msgID := jsoniter.Get(senderConn.last("message_sent"), "data", "id").ToString()

	h.dispatch(sender, envelope(t, "edit_message", editMessageData{
		MessageID:  msgID,
		NewMessage: "final draft",
	}))

	frame := receiverConn.last("message_edited")
	if frame == nil {
		t.Fatal("Expected message_edited on the receiver connection")
	}
	if got := jsoniter.Get(frame, "data", "content").ToString(); got != "final draft" {
		t.Fatalf("Expected edited content, got %q", got)
	}
	if !jsoniter.Get(frame, "data", "isEdited").ToBool() {
		t.Fatal("Expected the broadcast row to be flagged edited")
	}
	if jsoniter.Get(frame, "data", "editedAt").ToString() == "" {
		t.Fatal("Expected the broadcast to carry the edit timestamp")
	}
}

func TestTypingRelayedNotPersisted(t *testing.T) {
	h := newTestHub(t)
	createUser(t, h, "1")
	createUser(t, h, "2")

	sender, _ := connect(t, h, "1")
	receiver, receiverConn := connect(t, h, "2")

	roomID := db.RoomID("1", "2")
	h.dispatch(sender, envelope(t, "join_room", roomData{RoomID: roomID}))
	h.dispatch(receiver, envelope(t, "join_room", roomData{RoomID: roomID}))

	h.dispatch(sender, envelope(t, "typing", typingData{ChatRoomID: roomID, IsTyping: true}))

	frame := receiverConn.last("typing")
	if frame == nil {
		t.Fatal("Expected typing relay on the receiver connection")
	}
	if got := jsoniter.Get(frame, "data", "senderId").ToString(); got != "1" {
		t.Fatalf("Expected the relay to stamp the sender id, got %q", got)
	}

	msgs, err := h.DB.MessagesByRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("MessagesByRoom: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatal("Typing must never be persisted")
	}
}

func TestOfflineReceiverGetsNotificationRow(t *testing.T) {
	h := newTestHub(t)
	createUser(t, h, "1")
	createUser(t, h, "2")

	sender, _ := connect(t, h, "1")
	roomID := db.RoomID("1", "2")
	h.dispatch(sender, envelope(t, "join_room", roomData{RoomID: roomID}))

	h.dispatch(sender, envelope(t, "send_message", sendMessageData{
		ReceiverID: "2",
		Message:    "while you were out",
	}))

	notifs, err := h.DB.ListNotifications(context.Background(), "2")
	if err != nil {
		t.Fatalf("ListNotifications: %v", err)
	}
	if len(notifs) != 1 || notifs[0].Type != schemas.NotifMessage {
		t.Fatalf("Expected one MESSAGE notification, got %+v", notifs)
	}
}

func TestNotificationFailureAfterBroadcastStaysSilent(t *testing.T) {
	h := newTestHub(t)
	h.Logger = log.New(io.Discard, "", 0)
	createUser(t, h, "1")

	// receiver "2" has no account row, so the notification insert fails
	// after the message has already gone out
	sender, senderConn := connect(t, h, "1")
	roomID := db.RoomID("1", "2")
	h.dispatch(sender, envelope(t, "join_room", roomData{RoomID: roomID}))

	h.dispatch(sender, envelope(t, "send_message", sendMessageData{
		ReceiverID: "2",
		Message:    "already delivered",
	}))

	if senderConn.count("message_sent") != 1 {
		t.Fatal("Expected the send to succeed and be acked")
	}
	if senderConn.count("error") != 0 {
		t.Fatal("A failed notification must not raise an error for a delivered message")
	}

	msgs, err := h.DB.MessagesByRoom(context.Background(), roomID)
	if err != nil {
		t.Fatalf("MessagesByRoom: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("Expected the message to be persisted, got %d rows", len(msgs))
	}
}
