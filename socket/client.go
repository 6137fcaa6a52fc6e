package socket

import (
	"sync"

	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

// Conn is the subset of a websocket connection the hub reads and writes
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
}

// Envelope is the wire format of every socket event in both directions
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Client is one live authenticated connection
type Client struct {
	UserID   string
	Username string

	conn Conn
	mu   sync.Mutex
}

// NewClient wraps an authenticated connection
func NewClient(conn Conn, userID string, username string) *Client {
	return &Client{UserID: userID, Username: username, conn: conn}
}

// Emit writes one event to this connection; writes are serialized since
// room broadcasts run on the sender's goroutine
func (cl *Client) Emit(event string, data interface{}) error {
	b, err := jsoniter.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return err
	}
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.conn.WriteMessage(websocket.TextMessage, b)
}

// EmitError sends a scoped error event to this connection only
func (cl *Client) EmitError(message string) {
	cl.Emit("error", message)
}
