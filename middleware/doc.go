// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP cross-cutting helpers.

# Request Logging

WithLogging wraps a handler with structured request/completion log
lines via log/slog.

# JSON Helpers

  - JSONResponse: write a JSON body with a status code
  - ErrorResponse: write a models.ErrorResponse
  - SessionError: translate coordinator errors into 400/404/409/500
  - ParseJSONBody: decode a request body

# CORS

CORS reflects the request origin and handles preflight requests, so the
dev frontend on another port can reach the API and websocket endpoints.
*/
package middleware
