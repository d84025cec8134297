// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db implements schema creation and the persistence boundary the
session coordinator depends on.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL is restricted to the dialect PostgreSQL and SQLite
share, so the same schema runs on either driver.

# Tables

  - poll: Question, options (JSON text), voting window, lifecycle status
  - vote: One vote per poll per session
  - student: Registered participants, soft-deleted via is_active
  - chat_message: Append-only chat log

# Uniqueness Constraints

Two constraints back the coordinator's invariants at the store level:

  - vote(poll_id, session_id): at most one vote per session per poll
  - student(session_id): re-registration updates in place

CreateVote surfaces either driver's uniqueness error as ErrDuplicate.

# Stores

Store wraps a *sql.DB and runs against PostgreSQL or SQLite.
MemoryStore implements the same method set with mutex-guarded maps and
backs tests and the "memory" database type.
*/
package db
