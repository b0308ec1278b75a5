package relay

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"medicall/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// sendQueueSize caps the per-connection outbound queue; a member that
	// falls this far behind is disconnected rather than blocking senders.
	sendQueueSize = 64

	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 32 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens before the upgrade; cross-origin browser clients are
	// expected.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one relay connection. Room membership lives in the hub; the
// client only remembers which rooms it joined so disconnect can clean up.
type Client struct {
	ID     string
	UserID string

	hub  *Hub
	conn *websocket.Conn
	send chan Event

	mu     sync.Mutex
	rooms  map[string]struct{}
	closed bool
}

func newClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan Event, sendQueueSize),
		rooms:  make(map[string]struct{}),
	}
}

// ServeWS upgrades the request and runs the connection's pumps.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := newClient(hub, conn, userID)

	go client.writePump()
	go client.readPump()
	return nil
}

// trySend enqueues without blocking; false means the queue is full or the
// connection already closed. The mutex keeps the enqueue ordered against
// closeSend so a concurrent broadcast can never hit a closed channel.
func (c *Client) trySend(evt Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- evt:
		return true
	default:
		return false
	}
}

func (c *Client) rememberRoom(roomID string) {
	c.mu.Lock()
	c.rooms[roomID] = struct{}{}
	c.mu.Unlock()
}

func (c *Client) forgetRoom(roomID string) {
	c.mu.Lock()
	delete(c.rooms, roomID)
	c.mu.Unlock()
}

func (c *Client) joinedRooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	rooms := make([]string, 0, len(c.rooms))
	for roomID := range c.rooms {
		rooms = append(rooms, roomID)
	}
	return rooms
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// readPump consumes inbound frames until the connection drops, then tells
// the hub so every joined room sees the peer leave.
func (c *Client) readPump() {
	logger := utils.GetLogger()
	defer func() {
		c.hub.Disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Relay connection closed unexpectedly",
					zap.String("connId", c.ID), zap.Error(err))
			}
			return
		}

		var evt Event
		if err := json.Unmarshal(raw, &evt); err != nil {
			c.trySend(errorEvent("", "malformed event"))
			continue
		}
		if err := evt.Validate(); err != nil {
			c.trySend(errorEvent(evt.RoomID, err.Error()))
			continue
		}
		c.hub.HandleEvent(c, evt)
	}
}

// writePump drains the outbound queue onto the socket. Write failures are
// the best-effort boundary: logged, never reported to the original sender.
func (c *Client) writePump() {
	logger := utils.GetLogger()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(evt); err != nil {
				logger.Warn("Relay delivery failed",
					zap.String("connId", c.ID),
					zap.String("event", string(evt.Type)),
					zap.Error(err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
