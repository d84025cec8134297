// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/classpoll/models"
)

const (
	// sendQueueSize bounds per-client backlog before events are dropped.
	sendQueueSize = 32

	pingInterval = 15 * time.Second
	writeTimeout = 10 * time.Second
)

// Client is one websocket connection. Role and identity fields are set
// when the client joins and are guarded by the hub mutex.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	role      string
	sessionID string
	name      string
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// sendEvent queues an event for this connection only. Best-effort, like
// hub broadcasts.
func (c *Client) sendEvent(e models.Outbound) {
	frame, err := models.EncodeOutbound(e)
	if err != nil {
		slog.Error("failed to encode event", "event", e.EventName(), "error", err)
		return
	}

	select {
	case c.send <- frame:
	default:
		slog.Warn("dropping event for slow client", "event", e.EventName())
	}
}

// writePump drains the send queue onto the wire and keeps the
// connection alive with pings. Exits when the queue is closed by
// unregister or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				return
			}
		}
	}
}

// readPump reads frames until the client disconnects, decoding each one
// into a typed command and handing it to dispatch. Disconnecting only
// drops the connection; the student registration stays active so the
// same session token can rejoin.
func (c *Client) readPump(h *Handler) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		cmd, err := models.DecodeInbound(raw)
		if err != nil {
			c.sendEvent(models.OperationError{Message: err.Error()})
			continue
		}

		h.dispatch(c, cmd)
	}
}
