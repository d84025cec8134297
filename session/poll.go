// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/classpoll/models"
)

// CreatePoll opens a new active poll. Refused with ErrPollConflict while
// a prior poll is active and not everyone has answered it; a fully
// answered prior poll is force-completed first. On success the poll is
// persisted, its deadline armed, and poll:created broadcast to everyone.
func (c *Coordinator) CreatePoll(question string, options []models.OptionInput, duration int) (*models.Poll, error) {
	if question == "" || len(options) < 2 {
		return nil, ErrInvalidPoll
	}
	for _, o := range options {
		if o.Text == "" {
			return nil, ErrInvalidPoll
		}
	}
	if duration < models.MinDuration || duration > models.MaxDuration {
		return nil, ErrInvalidDuration
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Re-read under the lock: a deadline fire racing this call may have
	// completed the prior poll while we were waiting.
	active, err := c.store.ActivePoll(c.now())
	if err != nil {
		return nil, fmt.Errorf("check active poll: %w", err)
	}
	if active != nil {
		answered, err := c.hasEveryoneAnsweredLocked(active.ID)
		if err != nil {
			return nil, err
		}
		if !answered {
			return nil, ErrPollConflict
		}
		if _, err := c.completeLocked(active.ID); err != nil {
			return nil, err
		}
	}

	now := c.now()
	poll := &models.Poll{
		ID:        uuid.New().String(),
		Question:  question,
		Options:   make([]models.Option, len(options)),
		Duration:  duration,
		StartTime: now,
		EndTime:   now.Add(time.Duration(duration) * time.Second),
		Status:    models.StatusActive,
		CreatedAt: now,
	}
	for i, o := range options {
		poll.Options[i] = models.Option{Text: o.Text, IsCorrect: o.IsCorrect}
	}

	if err := c.store.CreatePoll(poll); err != nil {
		return nil, fmt.Errorf("create poll: %w", err)
	}

	c.armDeadlineLocked(poll.ID, time.Duration(duration)*time.Second)

	c.bus.ToAll(models.PollCreated{Poll: *poll, RemainingTime: c.remainingAt(poll, c.now())})
	slog.Info("poll created", "poll_id", poll.ID, "duration", duration, "options", len(poll.Options))

	return poll, nil
}

// Complete marks a poll completed with final tallies. Idempotent: a poll
// that is already completed is returned unchanged, so a manual call and
// a deadline fire for the same poll can race safely.
func (c *Coordinator) Complete(pollID string) (*models.Poll, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.completeLocked(pollID)
}

func (c *Coordinator) completeLocked(pollID string) (*models.Poll, error) {
	poll, err := c.store.PollByID(pollID)
	if err != nil {
		return nil, fmt.Errorf("load poll: %w", err)
	}
	if poll == nil {
		return nil, ErrPollNotFound
	}
	if poll.Status == models.StatusCompleted {
		return poll, nil
	}

	poll.Status = models.StatusCompleted
	if err := c.store.UpdatePoll(poll); err != nil {
		// Status flip did not persist; leave the timer armed so the
		// deadline can retry.
		poll.Status = models.StatusActive
		return nil, fmt.Errorf("complete poll: %w", err)
	}

	c.disarmDeadlineLocked(pollID)

	poll, err = c.tallyLocked(pollID)
	if err != nil {
		return nil, err
	}

	c.bus.ToAll(models.PollCompleted{Poll: *poll})
	slog.Info("poll completed", "poll_id", pollID)

	return poll, nil
}

// armDeadlineLocked schedules the one-shot auto-completion for a poll.
// Caller holds mu.
func (c *Coordinator) armDeadlineLocked(pollID string, d time.Duration) {
	c.timers[pollID] = time.AfterFunc(d, func() {
		if _, err := c.Complete(pollID); err != nil {
			slog.Error("deadline completion failed", "poll_id", pollID, "error", err)
		}
	})
}

// disarmDeadlineLocked cancels and drops a pending deadline, if any.
// Caller holds mu. A timer that already fired is waiting on mu inside
// Complete; it will observe the completed status and no-op.
func (c *Coordinator) disarmDeadlineLocked(pollID string) {
	if t, ok := c.timers[pollID]; ok {
		t.Stop()
		delete(c.timers, pollID)
	}
}

// GetActive returns the poll currently open for voting, or nil.
func (c *Coordinator) GetActive() (*models.Poll, error) {
	return c.store.ActivePoll(c.now())
}

// History returns completed polls, newest first.
func (c *Coordinator) History() ([]models.Poll, error) {
	return c.store.CompletedPolls()
}

// RemainingTime reports whole seconds left in the poll's voting window:
// non-increasing, never negative, and 0 once the poll is completed.
func (c *Coordinator) RemainingTime(p *models.Poll) int {
	return c.remainingAt(p, c.now())
}

func (c *Coordinator) remainingAt(p *models.Poll, now time.Time) int {
	if p.Status == models.StatusCompleted {
		return 0
	}
	remaining := int(p.EndTime.Sub(now).Seconds())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RecoverDeadlines reconciles persisted active polls after a restart:
// an expired poll is completed immediately, one still inside its window
// gets its deadline re-armed.
func (c *Coordinator) RecoverDeadlines() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	polls, err := c.store.PollsByStatus(models.StatusActive)
	if err != nil {
		return fmt.Errorf("load active polls: %w", err)
	}

	for i := range polls {
		p := &polls[i]
		if remaining := p.EndTime.Sub(c.now()); remaining > 0 {
			c.armDeadlineLocked(p.ID, remaining)
			slog.Info("deadline re-armed", "poll_id", p.ID, "remaining", remaining.Round(time.Second))
		} else {
			if _, err := c.completeLocked(p.ID); err != nil {
				return err
			}
			slog.Info("expired poll completed at startup", "poll_id", p.ID)
		}
	}

	return nil
}
