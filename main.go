// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/classpoll/cliparse"
	"github.com/danielhkuo/classpoll/db"
	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/router"
	"github.com/danielhkuo/classpoll/session"
	"github.com/danielhkuo/classpoll/ws"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	store, err := openStore(cfg)
	if err != nil {
		slog.Error("store setup failed", "error", err)
		os.Exit(1)
	}

	// Wire the session: store -> hub -> coordinator -> routes
	hub := ws.NewHub()
	coord := session.New(store, hub)
	defer coord.Close()

	// Re-arm or complete any poll that was active when the process last
	// stopped.
	if err := coord.RecoverDeadlines(); err != nil {
		slog.Error("deadline recovery failed", "error", err)
		os.Exit(1)
	}

	mux := router.NewRouter(coord, hub)

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "database", cfg.DatabaseType)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore connects the configured persistence backend and ensures the
// schema exists.
func openStore(cfg cliparse.Config) (session.Store, error) {
	if cfg.DatabaseType == cliparse.DBMemory {
		slog.Info("Using in-memory store; nothing will survive a restart")
		return db.NewMemoryStore(), nil
	}

	driver := "sqlite"
	if cfg.DatabaseType == cliparse.DBPostgres {
		driver = "postgres"
	}

	conn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	// Verify connection
	if err := conn.Ping(); err != nil {
		return nil, err
	}

	// Create schema (tables)
	if err := db.CreateSchema(conn); err != nil {
		return nil, err
	}
	slog.Info("Database schema ready", "driver", driver)

	return db.New(conn), nil
}
