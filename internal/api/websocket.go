package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"blackjack-table/internal/game"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now, customize this in production
	},
}

// Message represents a WebSocket message
type Message struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	PlayerID  string      `json:"playerId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
}

// Client represents a connected WebSocket client
type Client struct {
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
	hub       *Hub
}

// Hub maintains the set of active clients and broadcasts snapshots
// to the clients watching each session
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	sessions   map[string]map[*Client]bool
	mu         sync.RWMutex
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		sessions:   make(map[string]map[*Client]bool),
	}
}

// Run starts the hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true

			if client.sessionID != "" {
				if _, exists := h.sessions[client.sessionID]; !exists {
					h.sessions[client.sessionID] = make(map[*Client]bool)
				}
				h.sessions[client.sessionID][client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)

				if client.sessionID != "" && h.sessions[client.sessionID] != nil {
					delete(h.sessions[client.sessionID], client)
					// Clean up empty session sets
					if len(h.sessions[client.sessionID]) == 0 {
						delete(h.sessions, client.sessionID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastSession sends a fresh snapshot to every client watching
// the session
func (h *Hub) BroadcastSession(sess *game.Session) {
	msg := Message{
		Type:      "gameUpdate",
		SessionID: sess.ID,
		PlayerID:  sess.PlayerID,
		Data:      sess.Engine.Snapshot(),
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling game update: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sessionClients, exists := h.sessions[sess.ID]
	if !exists {
		return
	}

	for client := range sessionClients {
		select {
		case client.send <- data:
		default:
			// If client buffer is full, we'll handle on next write
		}
	}
}

// WebSocketHandler handles WebSocket connections
func (h *Hub) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")

	client := &Client{
		conn:      conn,
		send:      make(chan []byte, 256),
		sessionID: sessionID,
		hub:       h,
	}
	h.register <- client

	welcomeMsg := Message{
		Type: "welcome",
		Data: map[string]string{
			"message":   "Connected to blackjack table",
			"sessionId": sessionID,
		},
	}
	welcomeData, _ := json.Marshal(welcomeMsg)
	client.send <- welcomeData

	go client.readPump()
	go client.writePump()
}

// readPump drains the connection so close and pong frames are
// processed; commands arrive over the REST surface, not here
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4 * 1024)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
	}
}

// writePump pumps messages from the hub to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current WebSocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
