// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/danielhkuo/classpoll/models"
)

// Register upserts a student keyed by session id: a known token gets its
// name overwritten and its active flag set, keeping the original id and
// join time; an unknown token becomes a new student. The updated roster
// is broadcast to everyone.
func (c *Coordinator) Register(name, sessionID string) (*models.Student, error) {
	if name == "" || sessionID == "" {
		return nil, ErrInvalidStudent
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	st := &models.Student{
		ID:        uuid.New().String(),
		Name:      name,
		SessionID: sessionID,
		IsActive:  true,
		JoinedAt:  c.now(),
	}
	if err := c.store.UpsertStudent(st); err != nil {
		return nil, fmt.Errorf("register student: %w", err)
	}

	// Re-read so a re-registration returns the surviving record.
	st, err := c.store.StudentBySession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("load student: %w", err)
	}

	c.broadcastRosterLocked()
	slog.Info("student registered", "name", name)

	return st, nil
}

// Remove soft-deletes a student by session id, reporting whether the
// token was known. Vote history referencing a removed student stays
// intact. The affected session gets a targeted notification and the
// moderator connections get one for their dashboards; other students
// only see the roster update.
func (c *Coordinator) Remove(sessionID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	found, err := c.store.DeactivateStudent(sessionID)
	if err != nil {
		return false, fmt.Errorf("remove student: %w", err)
	}
	if !found {
		return false, nil
	}

	removed := models.StudentRemoved{SessionID: sessionID}
	c.bus.ToSession(sessionID, removed)
	c.bus.ToTeachers(removed)
	c.broadcastRosterLocked()

	slog.Info("student removed", "session_id", sessionID)
	return true, nil
}

// ActiveStudents returns the active roster, most recently joined first.
func (c *Coordinator) ActiveStudents() ([]models.Student, error) {
	return c.store.ActiveStudents()
}

func (c *Coordinator) broadcastRosterLocked() {
	students, err := c.store.ActiveStudents()
	if err != nil {
		slog.Error("roster broadcast failed", "error", err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}
	c.bus.ToAll(models.StudentsUpdate{Students: students})
}
