package socket

import (
	"context"
	"log"

	"LINKUP_server/crypt"
	"LINKUP_server/db"
	"LINKUP_server/errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	jsoniter "github.com/json-iterator/go"
)

// Hub owns the connection registry and room table and dispatches every
// inbound socket event
type Hub struct {
	DB       *db.DB
	Codec    *crypt.Codec
	Registry *Registry
	Rooms    *RoomTable
	Validate *validator.Validate
	Logger   *log.Logger
}

// NewHub builds a hub around the message store and codec
func NewHub(database *db.DB, codec *crypt.Codec) *Hub {
	return &Hub{
		DB:       database,
		Codec:    codec,
		Registry: NewRegistry(),
		Rooms:    NewRoomTable(),
		Validate: validator.New(),
		Logger:   log.Default(),
	}
}

// InitializeSocket initializes websocket connection
func InitializeSocket(c *fiber.Ctx) error {

	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return errors.HandleInternalError(c, "websocket_upgrade", fiber.ErrUpgradeRequired.Error())
}

// ClientSocket adapts an upgraded fiber websocket into the hub loop
func (h *Hub) ClientSocket(ws *websocket.Conn) {
	defer func() {
		if ws != nil && ws.Conn != nil {
			ws.Close()
		}
	}()
	h.ServeClient(ws, ws.Locals("userid").(string), ws.Locals("username").(string))
}

// ServeClient binds the connection and runs its read loop until the
// connection drops
func (h *Hub) ServeClient(conn Conn, userID string, username string) {

	cl := NewClient(conn, userID, username)
	h.Registry.Bind(cl)

	defer func() {
		h.Rooms.LeaveAll(cl)
		h.Registry.Unbind(cl)
	}()

	for {
		mt, b, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		h.dispatch(cl, b)
	}
}

// dispatch routes one inbound event; a failing handler never kills the
// connection, it only emits a scoped error event back to the sender
func (h *Hub) dispatch(cl *Client, b []byte) {

	var err error

	switch jsoniter.Get(b, "event").ToString() {
	case "user_connected":
		h.Registry.Bind(cl)
	case "join_room":
		err = h.joinRoom(cl, b)
	case "leave_room":
		err = h.leaveRoom(cl, b)
	case "typing":
		err = h.typing(cl, b)
	case "send_message":
		err = h.sendMessage(cl, b)
	case "read_message":
		err = h.readMessage(cl, b)
	case "delete_message":
		err = h.deleteMessage(cl, b)
	case "delete_message_for_all":
		err = h.deleteMessageForAll(cl, b)
	case "edit_message":
		err = h.editMessage(cl, b)
	case "send_notification":
		err = h.sendNotification(cl, b)
	case "read_notification":
		err = h.readNotification(cl, b)
	case "delete_notification":
		err = h.deleteNotification(cl, b)
	default:
		h.Logger.Println("socket: unrecognized event from " + cl.UserID)
		cl.EmitError("unrecognized event")
		return
	}

	if err != nil {
		if errors.IsApp(err) {
			cl.EmitError(err.Error())
			return
		}
		h.Logger.Println("socket: " + cl.UserID + ": " + err.Error())
		cl.EmitError("something went wrong")
	}
}

func (h *Hub) ctx() context.Context {
	return context.Background()
}
