// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
)

// Wire event names. One constant per frame type the socket layer speaks.
const (
	EventTeacherJoin    = "teacher:join"
	EventStudentJoin    = "student:join"
	EventPollCreate     = "poll:create"
	EventPollVote       = "poll:vote"
	EventChatMessage    = "chat:message"
	EventStudentRemove  = "student:remove"
	EventPollActive     = "poll:active"
	EventPollInactive   = "poll:inactive"
	EventPollCreated    = "poll:created"
	EventPollResults    = "poll:results"
	EventPollCompleted  = "poll:completed"
	EventVoteSuccess    = "vote:success"
	EventStudentsUpdate = "students:update"
	EventStudentRemoved = "student:removed"
	EventError          = "error"
)

// Envelope is the wire framing for every socket message, in both
// directions: an event name plus an event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound is a command received from a connected client. The set of
// implementations is closed; the transport decodes a frame into exactly
// one of them before anything else sees it.
type Inbound interface {
	inbound()
}

type TeacherJoin struct{}

type StudentJoin struct {
	Name      string `json:"name"`
	SessionID string `json:"sessionId"`
}

type PollCreate struct {
	Question string        `json:"question"`
	Options  []OptionInput `json:"options"`
	Duration int           `json:"duration"`
}

type PollVote struct {
	PollID      string `json:"pollId"`
	OptionIndex *int   `json:"optionIndex"`
}

type ChatSend struct {
	Message    string `json:"message"`
	SenderType string `json:"senderType"`
}

type StudentRemove struct {
	SessionID string `json:"sessionId"`
}

func (TeacherJoin) inbound()   {}
func (StudentJoin) inbound()   {}
func (PollCreate) inbound()    {}
func (PollVote) inbound()      {}
func (ChatSend) inbound()      {}
func (StudentRemove) inbound() {}

// DecodeInbound parses one client frame into its typed command.
// Unknown event names are an error; the caller reports them back on the
// originating connection instead of dropping the frame silently.
func DecodeInbound(raw []byte) (Inbound, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("malformed frame: %w", err)
	}

	switch env.Event {
	case EventTeacherJoin:
		return TeacherJoin{}, nil
	case EventStudentJoin:
		var cmd StudentJoin
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	case EventPollCreate:
		var cmd PollCreate
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	case EventPollVote:
		var cmd PollVote
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	case EventChatMessage:
		var cmd ChatSend
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	case EventStudentRemove:
		var cmd StudentRemove
		if err := json.Unmarshal(env.Data, &cmd); err != nil {
			return nil, fmt.Errorf("malformed %s payload: %w", env.Event, err)
		}
		return cmd, nil
	default:
		return nil, fmt.Errorf("unknown event %q", env.Event)
	}
}

// Outbound is a server-to-client event. Like Inbound, the implementation
// set is closed: one type per frame the server can emit.
type Outbound interface {
	EventName() string
	payload() any
}

type PollActive struct {
	Poll          Poll `json:"poll"`
	RemainingTime int  `json:"remainingTime"`
}

type PollInactive struct{}

type PollCreated struct {
	Poll          Poll `json:"poll"`
	RemainingTime int  `json:"remainingTime"`
}

type PollResults struct {
	Poll Poll
}

type PollCompleted struct {
	Poll Poll
}

type VoteSuccess struct {
	Vote Vote
}

type StudentsUpdate struct {
	Students []Student
}

type StudentRemoved struct {
	SessionID string `json:"sessionId"`
}

type ChatBroadcast struct {
	Message ChatMessage
}

type OperationError struct {
	Message string `json:"message"`
}

func (PollActive) EventName() string     { return EventPollActive }
func (PollInactive) EventName() string   { return EventPollInactive }
func (PollCreated) EventName() string    { return EventPollCreated }
func (PollResults) EventName() string    { return EventPollResults }
func (PollCompleted) EventName() string  { return EventPollCompleted }
func (VoteSuccess) EventName() string    { return EventVoteSuccess }
func (StudentsUpdate) EventName() string { return EventStudentsUpdate }
func (StudentRemoved) EventName() string { return EventStudentRemoved }
func (ChatBroadcast) EventName() string  { return EventChatMessage }
func (OperationError) EventName() string { return EventError }

func (e PollActive) payload() any     { return e }
func (PollInactive) payload() any     { return nil }
func (e PollCreated) payload() any    { return e }
func (e PollResults) payload() any    { return e.Poll }
func (e PollCompleted) payload() any  { return e.Poll }
func (e VoteSuccess) payload() any    { return e.Vote }
func (e StudentsUpdate) payload() any { return e.Students }
func (e StudentRemoved) payload() any { return e }
func (e ChatBroadcast) payload() any  { return e.Message }
func (e OperationError) payload() any { return e }

// EncodeOutbound renders an event into its wire frame.
func EncodeOutbound(e Outbound) ([]byte, error) {
	env := Envelope{Event: e.EventName()}

	if p := e.payload(); p != nil {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", e.EventName(), err)
		}
		env.Data = data
	}

	return json.Marshal(env)
}
