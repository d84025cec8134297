// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/classpoll/handlers"
	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/session"
	"github.com/danielhkuo/classpoll/ws"
)

// NewRouter mounts the HTTP API and the websocket endpoint.
func NewRouter(coord *session.Coordinator, hub *ws.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	pollHandler := handlers.NewPollHandler(coord)
	studentHandler := handlers.NewStudentHandler(coord)
	chatHandler := handlers.NewChatHandler(coord)

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Polls
	mux.HandleFunc("POST /api/polls/create", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /api/polls/active", middleware.WithLogging(pollHandler.GetActivePoll))
	mux.HandleFunc("GET /api/polls/history", middleware.WithLogging(pollHandler.GetPollHistory))
	mux.HandleFunc("GET /api/polls/{pollId}/results", middleware.WithLogging(pollHandler.GetPollResults))
	mux.HandleFunc("POST /api/polls/vote", middleware.WithLogging(pollHandler.SubmitVote))

	// Students
	mux.HandleFunc("POST /api/students/register", middleware.WithLogging(studentHandler.RegisterStudent))
	mux.HandleFunc("GET /api/students/active", middleware.WithLogging(studentHandler.GetActiveStudents))
	mux.HandleFunc("DELETE /api/students/{sessionId}", middleware.WithLogging(studentHandler.RemoveStudent))

	// Chat
	mux.HandleFunc("POST /api/chat/send", middleware.WithLogging(chatHandler.SendMessage))
	mux.HandleFunc("GET /api/chat/messages", middleware.WithLogging(chatHandler.GetRecentMessages))

	// Real-time event channel
	mux.Handle("GET /ws", ws.NewHandler(hub, coord))

	return mux
}
