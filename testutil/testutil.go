// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/danielhkuo/classpoll/db"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/session"
)

// BroadcastRecorder is a session.Broadcaster that captures every event
// for assertions.
type BroadcastRecorder struct {
	mu       sync.Mutex
	All      []models.Outbound
	Teachers []models.Outbound
	Targeted map[string][]models.Outbound
}

func NewBroadcastRecorder() *BroadcastRecorder {
	return &BroadcastRecorder{Targeted: make(map[string][]models.Outbound)}
}

func (r *BroadcastRecorder) ToAll(e models.Outbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.All = append(r.All, e)
}

func (r *BroadcastRecorder) ToTeachers(e models.Outbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Teachers = append(r.Teachers, e)
}

func (r *BroadcastRecorder) ToSession(sessionID string, e models.Outbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Targeted[sessionID] = append(r.Targeted[sessionID], e)
}

// AllNamed returns the broadcast events carrying the given wire name,
// in order.
func (r *BroadcastRecorder) AllNamed(name string) []models.Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Outbound
	for _, e := range r.All {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

// TeachersNamed returns the teacher-directed events carrying the given
// wire name, in order.
func (r *BroadcastRecorder) TeachersNamed(name string) []models.Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Outbound
	for _, e := range r.Teachers {
		if e.EventName() == name {
			out = append(out, e)
		}
	}
	return out
}

// TargetedFor returns events sent to one specific session.
func (r *BroadcastRecorder) TargetedFor(sessionID string) []models.Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Outbound(nil), r.Targeted[sessionID]...)
}

// NewCoordinator builds a coordinator on a fresh in-memory store with a
// recording broadcaster.
func NewCoordinator(t *testing.T) (*session.Coordinator, *db.MemoryStore, *BroadcastRecorder) {
	t.Helper()

	store := db.NewMemoryStore()
	rec := NewBroadcastRecorder()
	coord := session.New(store, rec)
	t.Cleanup(coord.Close)

	return coord, store, rec
}

// CreateTestPoll creates an active poll through the coordinator and
// returns it.
func CreateTestPoll(t *testing.T, coord *session.Coordinator, question string, optionTexts []string, duration int) *models.Poll {
	t.Helper()

	options := make([]models.OptionInput, len(optionTexts))
	for i, text := range optionTexts {
		options[i] = models.OptionInput{Text: text}
	}

	poll, err := coord.CreatePoll(question, options, duration)
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// RegisterTestStudent registers a student and returns the record.
func RegisterTestStudent(t *testing.T, coord *session.Coordinator, name, sessionID string) *models.Student {
	t.Helper()

	student, err := coord.Register(name, sessionID)
	if err != nil {
		t.Fatalf("Failed to register test student: %v", err)
	}
	return student
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
