// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Database type constants
const (
	DBPostgres = "postgres"
	DBSQLite   = "sqlite"
	DBMemory   = "memory"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
}

// ParseFlags validates flags, falling back to environment variables.
// A .env file in the working directory is loaded first, if present.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// Missing .env is the normal case in production.
	_ = godotenv.Load()

	fs := flag.NewFlagSet("classpoll", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (connection string or sqlite file path)")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (postgres, sqlite, or memory)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default
		}
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DBSQLite
		}
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	switch cfg.DatabaseType {
	case DBPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
	case DBSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "classpoll.db" // default
		}
	case DBMemory:
		// No URL needed; state lives and dies with the process.
	default:
		return Config{}, errors.New("database type must be postgres, sqlite, or memory")
	}

	return cfg, nil
}
