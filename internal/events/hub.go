// Package events provides global moderation event fan-out to connected
// staff clients.
package events

import (
	"encoding/json"
	"log/slog"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Event types broadcast on the global feed.
const (
	TypeReportCreated = "report_created"
)

// Event is a single broadcast payload.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Publisher is the capability the report workflow depends on: fire-and-forget
// global broadcast. Delivery failures are never surfaced to the publisher.
type Publisher interface {
	PublishGlobal(event Event)
}

// Client is one connected feed subscriber.
type Client struct {
	send chan []byte
}

// Hub broadcasts events to every connected client. Clients that cannot keep
// up are disconnected rather than allowed to block the feed.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run processes registrations and broadcasts until done is closed.
func (h *Hub) Run(done chan struct{}) {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					delete(h.clients, client)
					close(client.send)
				}
			}
		case <-done:
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			return
		}
	}
}

// PublishGlobal queues an event for broadcast to all connected clients.
// Never blocks: if the feed is backlogged the event is dropped and logged.
func (h *Hub) PublishGlobal(event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal event", "type", event.Type, "error", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		slog.Error("event feed backlogged, dropping event", "type", event.Type)
	}
}

// Handler upgrades the request and streams feed events until the client
// disconnects.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		client := &Client{send: make(chan []byte, 32)}
		h.register <- client
		defer func() {
			h.unregister <- client
			conn.Close()
		}()

		go func() {
			for msg := range client.send {
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			}
		}()

		// Inbound messages are ignored; the read loop only detects close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
