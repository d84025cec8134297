// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/session"
)

// PollHandler exposes the poll read/command surface over HTTP. All
// state changes go through the coordinator, so REST calls broadcast to
// connected sockets exactly like socket commands do.
type PollHandler struct {
	coord *session.Coordinator
}

func NewPollHandler(coord *session.Coordinator) *PollHandler {
	return &PollHandler{coord: coord}
}

// CreatePoll handles POST /api/polls/create
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	poll, err := h.coord.CreatePoll(req.Question, req.Options, req.Duration)
	if err != nil {
		middleware.SessionError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// GetActivePoll handles GET /api/polls/active
func (h *PollHandler) GetActivePoll(w http.ResponseWriter, r *http.Request) {
	poll, err := h.coord.GetActive()
	if err != nil {
		middleware.SessionError(w, err)
		return
	}
	if poll == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "No active poll found")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActivePollResponse{
		Poll:          *poll,
		RemainingTime: h.coord.RemainingTime(poll),
	})
}

// GetPollHistory handles GET /api/polls/history
func (h *PollHandler) GetPollHistory(w http.ResponseWriter, r *http.Request) {
	polls, err := h.coord.History()
	if err != nil {
		middleware.SessionError(w, err)
		return
	}
	if polls == nil {
		polls = []models.Poll{}
	}

	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetPollResults handles GET /api/polls/{pollId}/results
func (h *PollHandler) GetPollResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("pollId")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId is required")
		return
	}

	poll, err := h.coord.Results(pollID)
	if err != nil {
		middleware.SessionError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, poll)
}

// SubmitVote handles POST /api/polls/vote
func (h *PollHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.OptionIndex == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "optionIndex is required")
		return
	}

	vote, err := h.coord.SubmitVote(req.PollID, req.SessionID, req.StudentName, *req.OptionIndex)
	if err != nil {
		middleware.SessionError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, vote)
}
