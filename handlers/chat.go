// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/session"
)

// ChatHandler exposes the chat log over HTTP.
type ChatHandler struct {
	coord *session.Coordinator
}

func NewChatHandler(coord *session.Coordinator) *ChatHandler {
	return &ChatHandler{coord: coord}
}

// SendMessage handles POST /api/chat/send
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req models.SendChatRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	message, err := h.coord.SendChat(req.SenderName, req.Message, req.SenderType)
	if err != nil {
		middleware.SessionError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, message)
}

// GetRecentMessages handles GET /api/chat/messages?limit=
func (h *ChatHandler) GetRecentMessages(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	messages, err := h.coord.RecentChat(limit)
	if err != nil {
		middleware.SessionError(w, err)
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	middleware.JSONResponse(w, http.StatusOK, messages)
}
