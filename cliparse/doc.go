// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment
variables.

# Precedence

Flags win over environment variables; a .env file in the working
directory is loaded into the environment first (via godotenv), matching
how the deployment scripts provide settings.

# Settings

  - PORT (-p): server port, default 5000
  - DATABASE_TYPE (-t): postgres, sqlite, or memory; default sqlite
  - DATABASE_URL (-d): postgres connection string or sqlite file path
    (default classpoll.db); unused for memory

Postgres without a URL is an error; memory needs nothing and keeps all
state in-process, which is handy for demos and tests.
*/
package cliparse
