// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the route table using Go 1.22+ routing.

# Routes

Polls:

	POST   /api/polls/create
	GET    /api/polls/active
	GET    /api/polls/history
	GET    /api/polls/{pollId}/results
	POST   /api/polls/vote

Students:

	POST   /api/students/register
	GET    /api/students/active
	DELETE /api/students/{sessionId}

Chat:

	POST   /api/chat/send
	GET    /api/chat/messages

Real-time:

	GET    /ws

Plus GET /api/health. HTTP handlers are wrapped with request logging;
the websocket endpoint handles its own lifecycle.
*/
package router
