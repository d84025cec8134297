// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"sync"
	"time"

	"github.com/danielhkuo/classpoll/models"
)

// Store is the persistence contract the coordinator consumes. Satisfied
// by db.Store (SQL) and db.MemoryStore.
type Store interface {
	CreatePoll(p *models.Poll) error
	PollByID(id string) (*models.Poll, error)
	ActivePoll(now time.Time) (*models.Poll, error)
	CompletedPolls() ([]models.Poll, error)
	PollsByStatus(status string) ([]models.Poll, error)
	UpdatePoll(p *models.Poll) error

	CreateVote(v *models.Vote) error
	VoteExists(pollID, sessionID string) (bool, error)
	VotesForPoll(pollID string) ([]models.Vote, error)
	CountVotes(pollID string) (int, error)

	UpsertStudent(st *models.Student) error
	StudentBySession(sessionID string) (*models.Student, error)
	ActiveStudents() ([]models.Student, error)
	DeactivateStudent(sessionID string) (bool, error)

	CreateChatMessage(m *models.ChatMessage) error
	RecentChatMessages(limit int) ([]models.ChatMessage, error)
}

// Broadcaster fans events out to connected clients. Delivery is
// best-effort at-most-once per connected client at send time; a client
// that is offline misses the event and catches up through join-time
// reconciliation.
type Broadcaster interface {
	ToAll(e models.Outbound)
	ToTeachers(e models.Outbound)
	ToSession(sessionID string, e models.Outbound)
}

// Coordinator owns the live polling session: the single active-poll
// slot, the vote ledger, the participant roster, and the deadline timer
// table. One mutex serializes every mutating operation, which is what
// keeps the cross-field invariants (duplicate check + insert + count
// bump) atomic. Broadcasts are emitted only after the mutation has been
// persisted, inside the same critical section, so the triggering caller
// never observes stale fan-out.
type Coordinator struct {
	mu    sync.Mutex
	store Store
	bus   Broadcaster

	// timers holds the pending deadline per active poll. Entries are
	// armed and disarmed only while holding mu; disarming happens in
	// the same critical section that marks the poll completed.
	timers map[string]*time.Timer

	now func() time.Time
}

// New creates a coordinator on top of the given store and broadcaster.
func New(store Store, bus Broadcaster) *Coordinator {
	return &Coordinator{
		store:  store,
		bus:    bus,
		timers: make(map[string]*time.Timer),
		now:    time.Now,
	}
}

// Close stops every pending deadline timer. Used at shutdown.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
}
