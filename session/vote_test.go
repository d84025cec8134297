// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/session"
	"github.com/danielhkuo/classpoll/testutil"
)

func TestSubmitVoteAndTally(t *testing.T) {
	coord, _, rec := testutil.NewCoordinator(t)

	testutil.RegisterTestStudent(t, coord, "Ana", "sess-1")
	poll := testutil.CreateTestPoll(t, coord, "2+2?", []string{"3", "4"}, 30)

	vote, err := coord.SubmitVote(poll.ID, "sess-1", "Ana", 1)
	if err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}
	if vote.OptionIndex != 1 || vote.SessionID != "sess-1" {
		t.Errorf("Unexpected vote record: %+v", vote)
	}

	results, err := coord.Results(poll.ID)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if results.Options[0].Votes != 0 || results.Options[1].Votes != 1 {
		t.Errorf("Expected tallies [0 1], got [%d %d]", results.Options[0].Votes, results.Options[1].Votes)
	}

	if n := len(rec.AllNamed(models.EventPollResults)); n != 1 {
		t.Errorf("Expected 1 poll:results broadcast, got %d", n)
	}
}

func TestSubmitVoteDuplicate(t *testing.T) {
	coord, _, _ := testutil.NewCoordinator(t)

	testutil.RegisterTestStudent(t, coord, "Ana", "sess-1")
	poll := testutil.CreateTestPoll(t, coord, "2+2?", []string{"3", "4"}, 30)

	if _, err := coord.SubmitVote(poll.ID, "sess-1", "Ana", 1); err != nil {
		t.Fatalf("First vote failed: %v", err)
	}

	_, err := coord.SubmitVote(poll.ID, "sess-1", "Ana", 0)
	if !errors.Is(err, session.ErrDuplicateVote) {
		t.Fatalf("Expected ErrDuplicateVote, got %v", err)
	}

	// Original vote stands.
	results, err := coord.Results(poll.ID)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	if results.Options[0].Votes != 0 || results.Options[1].Votes != 1 {
		t.Errorf("Expected tallies [0 1], got [%d %d]", results.Options[0].Votes, results.Options[1].Votes)
	}
}

func TestSubmitVoteOptionOutOfRange(t *testing.T) {
	coord, store, _ := testutil.NewCoordinator(t)

	poll := testutil.CreateTestPoll(t, coord, "2+2?", []string{"3", "4"}, 30)

	_, err := coord.SubmitVote(poll.ID, "sess-1", "Ana", 5)
	if !errors.Is(err, session.ErrOptionOutOfRange) {
		t.Fatalf("Expected ErrOptionOutOfRange, got %v", err)
	}
	_, err = coord.SubmitVote(poll.ID, "sess-1", "Ana", -1)
	if !errors.Is(err, session.ErrOptionOutOfRange) {
		t.Fatalf("Expected ErrOptionOutOfRange, got %v", err)
	}

	// No vote persisted.
	count, err := store.CountVotes(poll.ID)
	if err != nil {
		t.Fatalf("CountVotes failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 persisted votes, got %d", count)
	}
}

func TestSubmitVoteErrors(t *testing.T) {
	coord, _, _ := testutil.NewCoordinator(t)

	poll := testutil.CreateTestPoll(t, coord, "Q?", []string{"a", "b"}, 30)
	if _, err := coord.Complete(poll.ID); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	cases := []struct {
		name    string
		pollID  string
		session string
		student string
		option  int
		want    error
	}{
		{"unknown poll", "no-such-poll", "sess-1", "Ana", 0, session.ErrPollNotFound},
		{"completed poll", poll.ID, "sess-1", "Ana", 0, session.ErrPollInactive},
		{"missing session", poll.ID, "", "Ana", 0, session.ErrInvalidVote},
		{"missing name", poll.ID, "sess-1", "", 0, session.ErrInvalidVote},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coord.SubmitVote(tc.pollID, tc.session, tc.student, tc.option)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}
}

// TestConcurrentDuplicateVotes verifies that N simultaneous submissions
// for the same (poll, session) pair accept exactly one vote.
func TestConcurrentDuplicateVotes(t *testing.T) {
	coord, store, _ := testutil.NewCoordinator(t)

	testutil.RegisterTestStudent(t, coord, "Ana", "sess-1")
	poll := testutil.CreateTestPoll(t, coord, "Q?", []string{"a", "b"}, 30)

	const attempts = 10

	var successes, duplicates atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(option int) {
			defer wg.Done()

			_, err := coord.SubmitVote(poll.ID, "sess-1", "Ana", option%2)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, session.ErrDuplicateVote):
				duplicates.Add(1)
			default:
				t.Errorf("Unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()

	if successes.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted vote, got %d", successes.Load())
	}
	if duplicates.Load() != attempts-1 {
		t.Errorf("Expected %d duplicate rejections, got %d", attempts-1, duplicates.Load())
	}

	count, err := store.CountVotes(poll.ID)
	if err != nil {
		t.Fatalf("CountVotes failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 persisted vote, got %d", count)
	}
}

// TestConcurrentDistinctVoters verifies tallies stay consistent when
// many different sessions vote at once.
func TestConcurrentDistinctVoters(t *testing.T) {
	coord, store, _ := testutil.NewCoordinator(t)

	poll := testutil.CreateTestPoll(t, coord, "Q?", []string{"a", "b", "c"}, 30)

	const voters = 12

	var wg sync.WaitGroup
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			sessionID := fmt.Sprintf("sess-%d", n)
			if _, err := coord.SubmitVote(poll.ID, sessionID, "Voter", n%3); err != nil {
				t.Errorf("Vote from %s failed: %v", sessionID, err)
			}
		}(i)
	}
	wg.Wait()

	results, err := coord.Results(poll.ID)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}

	total := 0
	for _, opt := range results.Options {
		total += opt.Votes
	}

	count, err := store.CountVotes(poll.ID)
	if err != nil {
		t.Fatalf("CountVotes failed: %v", err)
	}
	if total != count || total != voters {
		t.Errorf("Tally total %d, persisted votes %d, expected %d", total, count, voters)
	}
}

func TestHasEveryoneAnswered(t *testing.T) {
	coord, _, _ := testutil.NewCoordinator(t)

	testutil.RegisterTestStudent(t, coord, "Ana", "sess-1")
	testutil.RegisterTestStudent(t, coord, "Ben", "sess-2")
	poll := testutil.CreateTestPoll(t, coord, "Q?", []string{"a", "b"}, 30)

	answered, err := coord.HasEveryoneAnswered(poll.ID)
	if err != nil {
		t.Fatalf("HasEveryoneAnswered failed: %v", err)
	}
	if answered {
		t.Error("Expected not everyone answered with 0 of 2 votes")
	}

	if _, err := coord.SubmitVote(poll.ID, "sess-1", "Ana", 0); err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}

	answered, err = coord.HasEveryoneAnswered(poll.ID)
	if err != nil {
		t.Fatalf("HasEveryoneAnswered failed: %v", err)
	}
	if answered {
		t.Error("Expected not everyone answered with 1 of 2 votes")
	}

	if _, err := coord.SubmitVote(poll.ID, "sess-2", "Ben", 1); err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}

	answered, err = coord.HasEveryoneAnswered(poll.ID)
	if err != nil {
		t.Fatalf("HasEveryoneAnswered failed: %v", err)
	}
	if !answered {
		t.Error("Expected everyone answered with 2 of 2 votes")
	}

	// A student joining mid-poll raises the bar; this approximation is
	// part of the observable behavior.
	testutil.RegisterTestStudent(t, coord, "Cal", "sess-3")
	answered, err = coord.HasEveryoneAnswered(poll.ID)
	if err != nil {
		t.Fatalf("HasEveryoneAnswered failed: %v", err)
	}
	if answered {
		t.Error("Expected late joiner to count as a required voter")
	}
}
