// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/classpoll/middleware"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/session"
)

// StudentHandler exposes the participant registry over HTTP.
type StudentHandler struct {
	coord *session.Coordinator
}

func NewStudentHandler(coord *session.Coordinator) *StudentHandler {
	return &StudentHandler{coord: coord}
}

// RegisterStudent handles POST /api/students/register
func (h *StudentHandler) RegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterStudentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	student, err := h.coord.Register(req.Name, req.SessionID)
	if err != nil {
		middleware.SessionError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, student)
}

// GetActiveStudents handles GET /api/students/active
func (h *StudentHandler) GetActiveStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.coord.ActiveStudents()
	if err != nil {
		middleware.SessionError(w, err)
		return
	}
	if students == nil {
		students = []models.Student{}
	}

	middleware.JSONResponse(w, http.StatusOK, students)
}

// RemoveStudent handles DELETE /api/students/{sessionId}
func (h *StudentHandler) RemoveStudent(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")
	if sessionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	found, err := h.coord.Remove(sessionID)
	if err != nil {
		middleware.SessionError(w, err)
		return
	}
	if !found {
		middleware.ErrorResponse(w, http.StatusNotFound, session.ErrStudentNotFound.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RemoveStudentResponse{Success: true})
}
