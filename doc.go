// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Classpoll server.

Classpoll runs a live classroom polling session: a teacher broadcasts
timed multiple-choice questions over websockets, students each cast one
vote per question, and aggregated results fan out to every connected
client in real time.

# Starting the Server

The server runs with zero configuration against a local SQLite file:

	go run main.go

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 5000 -t memory

# Configuration

Optional settings:

  - PORT (-p): server port (default: 5000)
  - DATABASE_TYPE (-t): postgres, sqlite, or memory (default: sqlite)
  - DATABASE_URL (-d): connection string or sqlite file path

A .env file in the working directory is honored.

# Architecture

One coordinator owns the session state; everything else is wired around
it at startup with explicit dependency injection:

  - session: poll lifecycle, vote ledger, participant registry (the core)
  - ws: websocket hub and typed event protocol
  - handlers: HTTP read/command surface
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, error mapping
  - db: schema plus SQL and in-memory stores
  - models: domain types and the closed socket event set
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
