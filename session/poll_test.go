// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session_test

import (
	"errors"
	"testing"
	"time"

	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/session"
	"github.com/danielhkuo/classpoll/testutil"
)

func twoOptions() []models.OptionInput {
	return []models.OptionInput{
		{Text: "3"},
		{Text: "4", IsCorrect: true},
	}
}

func TestCreatePollWithNoStudents(t *testing.T) {
	coord, _, rec := testutil.NewCoordinator(t)

	poll, err := coord.CreatePoll("2+2?", twoOptions(), 30)
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}

	if poll.Status != models.StatusActive {
		t.Errorf("Expected status %q, got %q", models.StatusActive, poll.Status)
	}

	active, err := coord.GetActive()
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if active == nil || active.ID != poll.ID {
		t.Fatalf("Expected the created poll to be active, got %+v", active)
	}

	remaining := coord.RemainingTime(active)
	if remaining <= 0 || remaining > 30 {
		t.Errorf("Expected remaining time in (0, 30], got %d", remaining)
	}

	created := rec.AllNamed(models.EventPollCreated)
	if len(created) != 1 {
		t.Fatalf("Expected 1 poll:created broadcast, got %d", len(created))
	}
}

func TestCreatePollValidation(t *testing.T) {
	coord, _, _ := testutil.NewCoordinator(t)

	cases := []struct {
		name     string
		question string
		options  []models.OptionInput
		duration int
		want     error
	}{
		{"empty question", "", twoOptions(), 30, session.ErrInvalidPoll},
		{"one option", "Q?", []models.OptionInput{{Text: "only"}}, 30, session.ErrInvalidPoll},
		{"blank option text", "Q?", []models.OptionInput{{Text: "a"}, {Text: ""}}, 30, session.ErrInvalidPoll},
		{"duration too small", "Q?", twoOptions(), 0, session.ErrInvalidDuration},
		{"duration too large", "Q?", twoOptions(), 301, session.ErrInvalidDuration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := coord.CreatePoll(tc.question, tc.options, tc.duration)
			if !errors.Is(err, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, err)
			}
		})
	}

	// Nothing should have been persisted or broadcast.
	active, err := coord.GetActive()
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if active != nil {
		t.Errorf("Expected no active poll after failed creations, got %+v", active)
	}
}

func TestCreatePollConflictWhileUnanswered(t *testing.T) {
	coord, _, _ := testutil.NewCoordinator(t)

	testutil.RegisterTestStudent(t, coord, "Ana", "sess-1")
	testutil.RegisterTestStudent(t, coord, "Ben", "sess-2")

	first := testutil.CreateTestPoll(t, coord, "Q1?", []string{"a", "b"}, 60)

	_, err := coord.CreatePoll("Q2?", twoOptions(), 60)
	if !errors.Is(err, session.ErrPollConflict) {
		t.Fatalf("Expected ErrPollConflict, got %v", err)
	}

	// First poll untouched.
	active, err := coord.GetActive()
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if active == nil || active.ID != first.ID {
		t.Fatalf("Expected first poll to still be active")
	}
	if active.Status != models.StatusActive {
		t.Errorf("Expected status %q, got %q", models.StatusActive, active.Status)
	}
}

func TestCreatePollForceCompletesAnsweredPoll(t *testing.T) {
	coord, _, rec := testutil.NewCoordinator(t)

	testutil.RegisterTestStudent(t, coord, "Ana", "sess-1")
	first := testutil.CreateTestPoll(t, coord, "Q1?", []string{"a", "b"}, 60)

	if _, err := coord.SubmitVote(first.ID, "sess-1", "Ana", 0); err != nil {
		t.Fatalf("SubmitVote failed: %v", err)
	}

	second, err := coord.CreatePoll("Q2?", twoOptions(), 60)
	if err != nil {
		t.Fatalf("Expected creation to succeed once everyone answered, got %v", err)
	}

	// The answered poll was completed on the way in.
	completed := rec.AllNamed(models.EventPollCompleted)
	if len(completed) != 1 {
		t.Fatalf("Expected 1 poll:completed broadcast, got %d", len(completed))
	}

	active, err := coord.GetActive()
	if err != nil {
		t.Fatalf("GetActive failed: %v", err)
	}
	if active == nil || active.ID != second.ID {
		t.Fatalf("Expected the second poll to be the active one")
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	coord, _, rec := testutil.NewCoordinator(t)

	poll := testutil.CreateTestPoll(t, coord, "Q?", []string{"a", "b"}, 60)

	done, err := coord.Complete(poll.ID)
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if done.Status != models.StatusCompleted {
		t.Errorf("Expected status %q, got %q", models.StatusCompleted, done.Status)
	}

	again, err := coord.Complete(poll.ID)
	if err != nil {
		t.Fatalf("Second Complete failed: %v", err)
	}
	if again.Status != models.StatusCompleted || again.ID != done.ID {
		t.Errorf("Expected the same completed poll back, got %+v", again)
	}

	if n := len(rec.AllNamed(models.EventPollCompleted)); n != 1 {
		t.Errorf("Expected exactly 1 poll:completed broadcast, got %d", n)
	}
}

func TestCompleteUnknownPoll(t *testing.T) {
	coord, _, _ := testutil.NewCoordinator(t)

	_, err := coord.Complete("no-such-poll")
	if !errors.Is(err, session.ErrPollNotFound) {
		t.Errorf("Expected ErrPollNotFound, got %v", err)
	}
}

func TestDeadlineFiresExactlyOnce(t *testing.T) {
	coord, store, rec := testutil.NewCoordinator(t)

	poll := testutil.CreateTestPoll(t, coord, "Q?", []string{"a", "b"}, 1)

	// Wait for the deadline to complete the poll.
	deadline := time.After(3 * time.Second)
	for {
		p, err := store.PollByID(poll.ID)
		if err != nil {
			t.Fatalf("PollByID failed: %v", err)
		}
		if p.Status == models.StatusCompleted {
			break
		}
		select {
		case <-deadline:
			t.Fatal("Poll was not completed by its deadline")
		case <-time.After(50 * time.Millisecond):
		}
	}

	// A manual Complete after the fire is a no-op on the same poll.
	again, err := coord.Complete(poll.ID)
	if err != nil {
		t.Fatalf("Complete after deadline failed: %v", err)
	}
	if again.Status != models.StatusCompleted {
		t.Errorf("Expected completed status, got %q", again.Status)
	}

	if n := len(rec.AllNamed(models.EventPollCompleted)); n != 1 {
		t.Errorf("Expected exactly 1 poll:completed broadcast, got %d", n)
	}

	if remaining := coord.RemainingTime(again); remaining != 0 {
		t.Errorf("Expected remaining time 0 after completion, got %d", remaining)
	}
}

func TestRemainingTimeNeverNegative(t *testing.T) {
	coord, _, _ := testutil.NewCoordinator(t)

	poll := testutil.CreateTestPoll(t, coord, "Q?", []string{"a", "b"}, 30)

	first := coord.RemainingTime(poll)
	time.Sleep(20 * time.Millisecond)
	second := coord.RemainingTime(poll)

	if second > first {
		t.Errorf("Remaining time increased: %d then %d", first, second)
	}
	if first < 0 || second < 0 {
		t.Errorf("Remaining time went negative: %d, %d", first, second)
	}

	// An expired window reports 0 regardless of status.
	expired := *poll
	expired.EndTime = time.Now().Add(-time.Minute)
	if r := coord.RemainingTime(&expired); r != 0 {
		t.Errorf("Expected 0 for an expired window, got %d", r)
	}
}

func TestSingleActivePollInvariant(t *testing.T) {
	coord, store, _ := testutil.NewCoordinator(t)

	// Run several lifecycle rounds and check after each step that at
	// most one poll is ever active.
	assertAtMostOneActive := func() {
		t.Helper()
		polls, err := store.PollsByStatus(models.StatusActive)
		if err != nil {
			t.Fatalf("PollsByStatus failed: %v", err)
		}
		if len(polls) > 1 {
			t.Fatalf("Invariant violated: %d active polls", len(polls))
		}
	}

	for i := 0; i < 3; i++ {
		poll := testutil.CreateTestPoll(t, coord, "Q?", []string{"a", "b"}, 60)
		assertAtMostOneActive()

		if _, err := coord.Complete(poll.ID); err != nil {
			t.Fatalf("Complete failed: %v", err)
		}
		assertAtMostOneActive()
	}

	history, err := coord.History()
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 {
		t.Errorf("Expected 3 completed polls in history, got %d", len(history))
	}
}

func TestRecoverDeadlinesCompletesExpiredPoll(t *testing.T) {
	coord, store, rec := testutil.NewCoordinator(t)

	// Seed an active poll whose window already closed, as if the
	// process died mid-poll.
	stale := &models.Poll{
		ID:        "stale-poll",
		Question:  "Q?",
		Options:   []models.Option{{Text: "a"}, {Text: "b"}},
		Duration:  30,
		StartTime: time.Now().Add(-2 * time.Minute),
		EndTime:   time.Now().Add(-90 * time.Second),
		Status:    models.StatusActive,
		CreatedAt: time.Now().Add(-2 * time.Minute),
	}
	if err := store.CreatePoll(stale); err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}

	if err := coord.RecoverDeadlines(); err != nil {
		t.Fatalf("RecoverDeadlines failed: %v", err)
	}

	p, err := store.PollByID(stale.ID)
	if err != nil {
		t.Fatalf("PollByID failed: %v", err)
	}
	if p.Status != models.StatusCompleted {
		t.Errorf("Expected stale poll completed, got %q", p.Status)
	}

	if n := len(rec.AllNamed(models.EventPollCompleted)); n != 1 {
		t.Errorf("Expected 1 poll:completed broadcast, got %d", n)
	}
}
