// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session is the poll session coordinator: the single owner of the
live classroom state.

# Responsibilities

  - Poll lifecycle: at most one poll is active system-wide. CreatePoll
    refuses to start a new question while the current one is unanswered
    (ErrPollConflict), force-completes a fully answered one, and arms a
    one-shot deadline that auto-completes the poll when its duration
    elapses. Complete is idempotent and safe under concurrent
    invocation, so a manual completion and a deadline fire can race.
  - Vote ledger: one vote per session per poll. The duplicate check,
    insert, and count update are atomic under the coordinator mutex,
    with the store's unique index as backstop. Tallies are always
    recomputed from the vote records; the counts embedded in the poll
    are a derived projection.
  - Participant registry: upsert-by-token registration, soft-delete
    removal, active roster ordered by most recent join.
  - Chat passthrough: append-only log with broadcast, no invariants.

# Concurrency

One mutex serializes CreatePoll, Complete, SubmitVote, Register, and
Remove. Deadline timers live in a table owned by the coordinator and are
armed/disarmed only inside that critical section; a timer that fires
after an early completion finds the poll completed and no-ops.
Broadcasts go out after the mutation is persisted, while still inside
the critical section, so fan-out always reflects committed state.
Delivery is best-effort: a disconnected client catches up through the
join-time replay (GetActive + RemainingTime) instead of guaranteed
delivery.

# Wiring

Construct once at startup and hand to the transport layers:

	coord := session.New(store, hub)
	defer coord.Close()

Store and Broadcaster are plain interfaces; tests use the in-memory
store and a recording broadcaster.
*/
package session
