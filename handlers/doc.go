// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP surface of the polling session.

# Handlers

  - PollHandler: create poll, active poll (with remaining time), poll
    history, per-poll results, vote submission
  - StudentHandler: registration, active roster, removal
  - ChatHandler: send message, recent messages

Handlers hold a reference to the session coordinator and never touch
storage directly; every mutation funnels through the same serialized
operations the websocket layer uses, so an HTTP vote broadcasts results
to connected sockets exactly like a socket vote.

# Error Mapping

Coordinator errors translate via middleware.SessionError: validation
400, unknown ids 404, refused operations (active-poll conflict,
duplicate vote, expired poll) 409.
*/
package handlers
