// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/session"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // identity is the self-asserted session token, not the origin
	},
}

// Handler upgrades connections and routes decoded commands to the
// coordinator. All coordinator errors are reported to the originating
// connection only, as error events; broadcasts for successful
// operations come from the coordinator through the hub.
type Handler struct {
	hub   *Hub
	coord *session.Coordinator
}

// NewHandler wires the websocket endpoint.
func NewHandler(hub *Hub, coord *session.Coordinator) *Handler {
	return &Handler{hub: hub, coord: coord}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	client := newClient(h.hub, conn)
	h.hub.register(client)

	go client.writePump()
	client.readPump(h)
}

func (h *Handler) dispatch(c *Client, cmd models.Inbound) {
	switch cmd := cmd.(type) {
	case models.TeacherJoin:
		h.hub.joinTeachers(c)
		h.replayState(c)
		h.sendRoster(c)

	case models.StudentJoin:
		if _, err := h.coord.Register(cmd.Name, cmd.SessionID); err != nil {
			c.sendEvent(models.OperationError{Message: err.Error()})
			return
		}
		h.hub.joinStudents(c, cmd.SessionID, cmd.Name)
		h.replayState(c)

	case models.PollCreate:
		if _, err := h.coord.CreatePoll(cmd.Question, cmd.Options, cmd.Duration); err != nil {
			c.sendEvent(models.OperationError{Message: err.Error()})
		}

	case models.PollVote:
		if c.sessionID == "" {
			c.sendEvent(models.OperationError{Message: "not registered as student"})
			return
		}
		if cmd.OptionIndex == nil {
			c.sendEvent(models.OperationError{Message: session.ErrOptionOutOfRange.Error()})
			return
		}
		vote, err := h.coord.SubmitVote(cmd.PollID, c.sessionID, c.name, *cmd.OptionIndex)
		if err != nil {
			c.sendEvent(models.OperationError{Message: err.Error()})
			return
		}
		c.sendEvent(models.VoteSuccess{Vote: *vote})

	case models.ChatSend:
		sender := c.name
		if sender == "" {
			sender = "Teacher"
		}
		if _, err := h.coord.SendChat(sender, cmd.Message, cmd.SenderType); err != nil {
			c.sendEvent(models.OperationError{Message: err.Error()})
		}

	case models.StudentRemove:
		if _, err := h.coord.Remove(cmd.SessionID); err != nil {
			c.sendEvent(models.OperationError{Message: err.Error()})
		}
	}
}

// replayState reconciles a newly joined or rejoined connection: either
// the current poll with its remaining time, or an explicit inactive
// signal so the client is never left waiting on silence.
func (h *Handler) replayState(c *Client) {
	poll, err := h.coord.GetActive()
	if err != nil {
		slog.Error("active poll replay failed", "error", err)
		c.sendEvent(models.OperationError{Message: "failed to load session state"})
		return
	}

	if poll == nil {
		c.sendEvent(models.PollInactive{})
		return
	}
	c.sendEvent(models.PollActive{Poll: *poll, RemainingTime: h.coord.RemainingTime(poll)})
}

func (h *Handler) sendRoster(c *Client) {
	students, err := h.coord.ActiveStudents()
	if err != nil {
		slog.Error("roster replay failed", "error", err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	c.sendEvent(models.StudentsUpdate{Students: students})
}
