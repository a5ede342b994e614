package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/volsurf/volsurf/internal/session"
	"github.com/volsurf/volsurf/pkg/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins; restrict in production
	},
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// WSClient represents a single WebSocket connection. Each client owns
// a private pricing session seeded from the configured defaults, so
// input changes on one connection never affect another.
type WSClient struct {
	hub     *WSHub
	send    chan WSMessage
	session *session.Session
}

// wsRequest is an incoming client message. Data stays raw until the
// type is known.
type wsRequest struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// handleWebSocket upgrades HTTP connections to WebSocket and serves
// the interactive pricing protocol: "update" patches inputs and
// recomputes, "reset" restores defaults, "snapshot" replays the
// current state. Every successful recompute is answered with a
// "snapshot" message.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &WSClient{
		hub:     s.wsHub,
		send:    make(chan WSMessage, 256),
		session: session.New(s.cfg.DefaultInputs(), s.cfg.Surface.Workers),
	}

	s.wsHub.Register(client)

	// Greet the client with its starting state.
	if snap, err := client.session.Snapshot(); err == nil {
		client.send <- WSMessage{Type: "snapshot", Data: snap}
	} else {
		client.send <- wsError(err)
	}

	// Start reader and writer goroutines
	go wsWritePump(conn, client)
	go wsReadPump(conn, client)
}

// wsReadPump pumps messages from the WebSocket connection into the
// client's session.
func wsReadPump(conn *websocket.Conn, client *WSClient) {
	defer func() {
		client.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var req wsRequest
		if err := json.Unmarshal(message, &req); err != nil {
			continue
		}

		switch req.Type {
		case "update":
			var u models.InputUpdate
			if err := json.Unmarshal(req.Data, &u); err != nil {
				client.send <- wsError(err)
				continue
			}
			if u.IsZero() {
				// Nothing changed; replay instead of recomputing.
				client.reply(client.session.Snapshot())
				continue
			}
			client.reply(client.session.Apply(u))

		case "reset":
			client.reply(client.session.Reset())

		case "snapshot":
			client.reply(client.session.Snapshot())

		case "ping":
			client.send <- WSMessage{Type: "pong"}
		}
	}
}

// reply turns a session result into a snapshot or error message. A
// failed update leaves the session on its previous state, so the
// client keeps a consistent view either way.
func (c *WSClient) reply(snap *models.Snapshot, err error) {
	if err != nil {
		c.send <- wsError(err)
		return
	}
	c.send <- WSMessage{Type: "snapshot", Data: snap}
}

func wsError(err error) WSMessage {
	return WSMessage{
		Type: "error",
		Data: map[string]string{"message": err.Error()},
	}
}

// wsWritePump pumps messages from the hub to the WebSocket connection.
func wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("WebSocket marshal error: %v", err)
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

			// Flush queued messages
			n := len(client.send)
			for i := 0; i < n; i++ {
				nextMsg := <-client.send
				nextData, err := json.Marshal(nextMsg)
				if err != nil {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, nextData); err != nil {
					return
				}
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
