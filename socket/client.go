package socket

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"topicdesk/pkg/keygen"
	"topicdesk/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The browser frontend runs on another origin during development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one open tab/device of a user. TabID is assigned server-side so
// broadcasts can skip the sender without trusting the client.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	UserID string
	TabID  string
	Send   chan []byte
}

// ServeWs upgrades the connection and joins the user's own room. Identity
// comes from the auth middleware; a client can never join another user's
// board.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request, userID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Sugar.Error(err)
		return
	}

	client := &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		TabID:  keygen.New(),
		Send:   make(chan []byte, 256),
	}

	client.Hub.Register <- client

	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	for {
		_, rawMessage, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Sugar.Errorf("error: %v", err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(rawMessage, &msg); err != nil {
			logger.Sugar.Errorf("Error unmarshalling message: %v", err)
			continue
		}

		// Overwrite identity fields with server-authoritative values so a
		// tab cannot spoof another user or tab.
		msg.UserID = c.UserID
		msg.TabID = c.TabID

		// Tabs only ever push full board payloads; everything else
		// originates on the server.
		if msg.Type != BoardUpdateType {
			logger.Sugar.Warnf("Dropping unexpected message type %q from tab %s", msg.Type, c.TabID)
			continue
		}

		c.Hub.Broadcast <- msg
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second) // Ping every 30s to keep the connection alive
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.Send:
			if !ok {
				// The hub closed the channel; tell the browser we're done.
				c.Conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return // Connection is dead
			}
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Connection is dead
			}
		}
	}
}
