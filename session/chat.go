// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/classpoll/models"
)

// DefaultChatLimit is how many recent messages a history read returns
// when the caller does not say.
const DefaultChatLimit = 50

// SendChat appends to the chat log and broadcasts the message. Chat has
// no coordination invariants, so it bypasses the session mutex.
func (c *Coordinator) SendChat(senderName, message, senderType string) (*models.ChatMessage, error) {
	if senderName == "" || message == "" {
		return nil, ErrInvalidChat
	}
	if senderType != models.SenderTeacher && senderType != models.SenderStudent {
		return nil, ErrInvalidChat
	}

	m := &models.ChatMessage{
		ID:         uuid.New().String(),
		SenderName: senderName,
		Message:    message,
		SenderType: senderType,
		CreatedAt:  c.now(),
	}
	if err := c.store.CreateChatMessage(m); err != nil {
		return nil, fmt.Errorf("send chat message: %w", err)
	}

	c.bus.ToAll(models.ChatBroadcast{Message: *m})
	return m, nil
}

// RecentChat returns the last limit messages in chronological order.
func (c *Coordinator) RecentChat(limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultChatLimit
	}
	return c.store.RecentChatMessages(limit)
}
