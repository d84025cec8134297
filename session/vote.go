// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/danielhkuo/classpoll/db"
	"github.com/danielhkuo/classpoll/models"
)

// SubmitVote records one student's answer. The duplicate check, the
// insert, and the count bump all happen under the coordinator lock, so
// N concurrent submissions for the same (poll, session) yield exactly
// one accepted vote; the store's unique index backstops the check. On
// success the updated tallies are broadcast to everyone.
func (c *Coordinator) SubmitVote(pollID, sessionID, studentName string, optionIndex int) (*models.Vote, error) {
	if pollID == "" || sessionID == "" || studentName == "" {
		return nil, ErrInvalidVote
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	poll, err := c.store.PollByID(pollID)
	if err != nil {
		return nil, fmt.Errorf("load poll: %w", err)
	}
	if poll == nil {
		return nil, ErrPollNotFound
	}
	if poll.Status != models.StatusActive || c.now().After(poll.EndTime) {
		return nil, ErrPollInactive
	}
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return nil, ErrOptionOutOfRange
	}

	exists, err := c.store.VoteExists(pollID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate vote: %w", err)
	}
	if exists {
		return nil, ErrDuplicateVote
	}

	vote := &models.Vote{
		ID:          uuid.New().String(),
		PollID:      pollID,
		StudentName: studentName,
		OptionIndex: optionIndex,
		SessionID:   sessionID,
		CreatedAt:   c.now(),
	}
	if err := c.store.CreateVote(vote); err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, ErrDuplicateVote
		}
		return nil, fmt.Errorf("record vote: %w", err)
	}

	// The persisted vote is the source of truth; the cached count on
	// the poll is a projection. A failed projection write is repaired
	// by the next tally, so it does not fail the vote.
	poll.Options[optionIndex].Votes++
	if err := c.store.UpdatePoll(poll); err != nil {
		slog.Warn("vote count projection update failed", "poll_id", pollID, "error", err)
	}

	results, err := c.tallyLocked(pollID)
	if err != nil {
		return nil, err
	}
	c.bus.ToAll(models.PollResults{Poll: *results})

	slog.Info("vote recorded", "poll_id", pollID, "option", optionIndex)
	return vote, nil
}

// Results returns the poll with authoritative per-option tallies,
// recomputed from the vote records.
func (c *Coordinator) Results(pollID string) (*models.Poll, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.tallyLocked(pollID)
}

// tallyLocked recounts votes per option from the ledger and writes the
// counts back into the poll projection when they drifted. Caller holds
// mu. Options nobody picked report 0, never a missing entry.
func (c *Coordinator) tallyLocked(pollID string) (*models.Poll, error) {
	poll, err := c.store.PollByID(pollID)
	if err != nil {
		return nil, fmt.Errorf("load poll: %w", err)
	}
	if poll == nil {
		return nil, ErrPollNotFound
	}

	votes, err := c.store.VotesForPoll(pollID)
	if err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}

	counts := make([]int, len(poll.Options))
	for _, v := range votes {
		if v.OptionIndex >= 0 && v.OptionIndex < len(counts) {
			counts[v.OptionIndex]++
		}
	}

	drifted := false
	for i := range poll.Options {
		if poll.Options[i].Votes != counts[i] {
			poll.Options[i].Votes = counts[i]
			drifted = true
		}
	}
	if drifted {
		if err := c.store.UpdatePoll(poll); err != nil {
			return nil, fmt.Errorf("store tallies: %w", err)
		}
	}

	return poll, nil
}

// HasEveryoneAnswered reports whether the vote total has reached the
// active participant count. Students who joined after the poll opened
// count as required voters, so a late arrival can flip an answered
// poll back to unanswered.
func (c *Coordinator) HasEveryoneAnswered(pollID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.hasEveryoneAnsweredLocked(pollID)
}

func (c *Coordinator) hasEveryoneAnsweredLocked(pollID string) (bool, error) {
	students, err := c.store.ActiveStudents()
	if err != nil {
		return false, fmt.Errorf("count active students: %w", err)
	}

	votes, err := c.store.CountVotes(pollID)
	if err != nil {
		return false, fmt.Errorf("count votes: %w", err)
	}

	return votes >= len(students), nil
}
