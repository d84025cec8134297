// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll status constants
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusCompleted = "completed"
)

// Chat sender type constants
const (
	SenderTeacher = "teacher"
	SenderStudent = "student"
)

// Poll duration bounds in seconds
const (
	MinDuration = 1
	MaxDuration = 300
)

// Request types

type CreatePollRequest struct {
	Question string        `json:"question"`
	Options  []OptionInput `json:"options"`
	Duration int           `json:"duration"`
}

type OptionInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type SubmitVoteRequest struct {
	PollID      string `json:"pollId"`
	StudentName string `json:"studentName"`
	OptionIndex *int   `json:"optionIndex"`
	SessionID   string `json:"sessionId"`
}

type RegisterStudentRequest struct {
	Name      string `json:"name"`
	SessionID string `json:"sessionId"`
}

type SendChatRequest struct {
	SenderName string `json:"senderName"`
	Message    string `json:"message"`
	SenderType string `json:"senderType"`
}

// Response types

type ActivePollResponse struct {
	Poll          Poll `json:"poll"`
	RemainingTime int  `json:"remainingTime"`
}

type RemoveStudentResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
	Votes     int    `json:"votes"`
}

type Poll struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Options   []Option  `json:"options"`
	Duration  int       `json:"duration"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type Vote struct {
	ID          string    `json:"id"`
	PollID      string    `json:"pollId"`
	StudentName string    `json:"studentName"`
	OptionIndex int       `json:"optionIndex"`
	SessionID   string    `json:"sessionId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Student struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SessionID string    `json:"sessionId"`
	IsActive  bool      `json:"isActive"`
	JoinedAt  time.Time `json:"joinedAt"`
}

type ChatMessage struct {
	ID         string    `json:"id"`
	SenderName string    `json:"senderName"`
	Message    string    `json:"message"`
	SenderType string    `json:"senderType"`
	CreatedAt  time.Time `json:"createdAt"`
}
