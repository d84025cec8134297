// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"log/slog"
	"sync"

	"github.com/danielhkuo/classpoll/models"
)

// Client roles within the hub.
const (
	roleTeacher = "teacher"
	roleStudent = "student"
)

// Hub tracks connected websocket clients and their roles, and fans
// events out to them. It implements session.Broadcaster. Delivery is
// best-effort at-most-once: a client whose send queue is full or that
// is disconnected at send time misses the event and resyncs on its next
// join.
type Hub struct {
	mu      sync.Mutex
	clients map[*Client]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]bool)}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
}

// joinTeachers marks the connection as the moderator's.
func (h *Hub) joinTeachers(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.role = roleTeacher
}

// joinStudents binds a connection to a student identity. The session id
// survives reconnects, so a rejoining student lands on the same token.
func (h *Hub) joinStudents(c *Client, sessionID, name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.role = roleStudent
	c.sessionID = sessionID
	c.name = name
}

// ToAll sends an event to every connected client.
func (h *Hub) ToAll(e models.Outbound) {
	h.send(e, func(*Client) bool { return true })
}

// ToTeachers sends an event to moderator connections only.
func (h *Hub) ToTeachers(e models.Outbound) {
	h.send(e, func(c *Client) bool { return c.role == roleTeacher })
}

// ToSession sends an event to the connection(s) bound to one session
// token. A disconnected session simply misses it.
func (h *Hub) ToSession(sessionID string, e models.Outbound) {
	h.send(e, func(c *Client) bool { return c.sessionID == sessionID })
}

func (h *Hub) send(e models.Outbound, match func(*Client) bool) {
	frame, err := models.EncodeOutbound(e)
	if err != nil {
		slog.Error("failed to encode event", "event", e.EventName(), "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !match(c) {
			continue
		}
		select {
		case c.send <- frame:
		default:
			// Slow consumer; drop rather than block the session.
			slog.Warn("dropping event for slow client", "event", e.EventName())
		}
	}
}
