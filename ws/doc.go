// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ws is the websocket transport: one connection per browser,
typed events in both directions, and best-effort fan-out.

# Hub

Hub tracks connections and their roles (teacher, student) and
implements session.Broadcaster: ToAll, ToTeachers, ToSession. Sends are
at-most-once per connected client at the time of send; slow or
disconnected clients miss events and resynchronize at their next join,
when the handler replays either the active poll with its remaining time
or an explicit poll:inactive signal.

# Protocol

Frames are models.Envelope JSON. Inbound frames decode once at this
boundary into the closed models.Inbound command set; the core never
sees raw event names. Outbound events are rendered from the closed
models.Outbound set. Operation failures go back to the originating
connection only, as error events; they are never broadcast.

# Connection lifecycle

Each connection runs a read pump and a write pump. The write pump owns
all writes, including keep-alive pings. A dropped connection only
unregisters from the hub; the student's registration and votes survive,
keyed by the client-held session token.
*/
package ws
