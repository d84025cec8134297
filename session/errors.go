// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import "errors"

// Operation errors. Every failed operation leaves the session state
// exactly as it was before the attempt. Messages are client-facing.
var (
	ErrInvalidPoll      = errors.New("invalid poll data")
	ErrInvalidDuration  = errors.New("duration must be between 1 and 300 seconds")
	ErrInvalidVote      = errors.New("missing required vote fields")
	ErrInvalidStudent   = errors.New("name and sessionId are required")
	ErrInvalidChat      = errors.New("invalid chat message")
	ErrPollConflict     = errors.New("please wait for all students to answer the current question")
	ErrPollNotFound     = errors.New("poll not found")
	ErrPollInactive     = errors.New("poll is no longer active")
	ErrDuplicateVote    = errors.New("you have already voted for this poll")
	ErrOptionOutOfRange = errors.New("invalid option index")
	ErrStudentNotFound  = errors.New("student not found")
)
