// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, request/response, and socket event
types shared across the server.

# Domain Types

  - Poll: one question with ordered options, a voting window, and a
    status (pending, active, completed)
  - Option: option text, correct-answer flag, and a derived vote count
  - Vote: one student's answer to one poll, keyed by session ID
  - Student: a registered participant; soft-deleted via IsActive
  - ChatMessage: one chat line, teacher or student

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, options, duration
  - SubmitVoteRequest: pollId, studentName, optionIndex, sessionId
  - RegisterStudentRequest: name, sessionId
  - SendChatRequest: senderName, message, senderType

# Socket Events

Every websocket frame is an Envelope: an event name plus a payload.
Inbound frames decode into the closed Inbound command set (TeacherJoin,
StudentJoin, PollCreate, PollVote, ChatSend, StudentRemove) via
DecodeInbound. Outbound frames are the closed Outbound set (PollActive,
PollInactive, PollCreated, PollResults, PollCompleted, VoteSuccess,
StudentsUpdate, StudentRemoved, ChatBroadcast, OperationError) rendered
by EncodeOutbound. Nothing outside this package pattern-matches on raw
event names.

# Constants

Poll status values:

	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"

Poll duration bounds (seconds):

	MinDuration = 1
	MaxDuration = 300
*/
package models
