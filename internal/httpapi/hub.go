package httpapi

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Hub maintains the set of connected stream observers and broadcasts
// snapshots to them. Observers never send meaningful messages back:
// this stream is push-only.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan snapshot

	mu sync.RWMutex
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan snapshot, 16),
	}
}

// Run starts the hub's dispatch loop. It never returns.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			log.Printf("httpapi: stream observer %s connected", c.ID)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			log.Printf("httpapi: stream observer %s disconnected", c.ID)

		case snap := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- snap:
				default:
					// client too slow; drop the connection
					go h.Unregister(c)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) { h.register <- c }

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) { h.unregister <- c }

// Broadcast queues a snapshot for delivery to every connected observer.
func (h *Hub) Broadcast(snap snapshot) { h.broadcast <- snap }

// Client wraps one observer's websocket connection. ID is a unique
// per-connection identifier used only for log correlation.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan snapshot
}

// NewClient wraps conn as a hub-managed client.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{ID: uuid.New().String(), hub: hub, conn: conn, send: make(chan snapshot, 16)}
}

// ReadPump drains and discards inbound frames (this stream is
// read-only from the observer's perspective) and detects disconnects.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("httpapi: websocket error: %v", err)
			}
			return
		}
	}
}

// WritePump pumps snapshots and keepalive pings to the observer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case snap, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(snap)
			if err != nil {
				log.Printf("httpapi: failed to marshal snapshot: %v", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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
