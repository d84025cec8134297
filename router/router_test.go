// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/classpoll/db"
	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/session"
	"github.com/danielhkuo/classpoll/testutil"
	"github.com/danielhkuo/classpoll/ws"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	store := db.NewMemoryStore()
	hub := ws.NewHub()
	coord := session.New(store, hub)
	t.Cleanup(coord.Close)

	return NewRouter(coord, hub)
}

func TestHealthRoute(t *testing.T) {
	mux := newTestRouter(t)

	req := testutil.MakeRequest("GET", "/api/health", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var resp map[string]string
	testutil.AssertJSON(t, w, &resp)
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", resp["status"])
	}
}

func TestRoutesAreMounted(t *testing.T) {
	mux := newTestRouter(t)

	cases := []struct {
		name     string
		method   string
		path     string
		body     interface{}
		expected int
	}{
		{"active poll", "GET", "/api/polls/active", nil, http.StatusNotFound},
		{"poll history", "GET", "/api/polls/history", nil, http.StatusOK},
		{"poll results", "GET", "/api/polls/nope/results", nil, http.StatusNotFound},
		{"active students", "GET", "/api/students/active", nil, http.StatusOK},
		{"chat messages", "GET", "/api/chat/messages", nil, http.StatusOK},
		{
			"register student", "POST", "/api/students/register",
			models.RegisterStudentRequest{Name: "Ana", SessionID: "sess-ana"},
			http.StatusCreated,
		},
		{"remove unknown student", "DELETE", "/api/students/nope", nil, http.StatusNotFound},
		{"method not allowed", "DELETE", "/api/polls/active", nil, http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest(tc.method, tc.path, tc.body, nil)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			testutil.AssertStatus(t, w, tc.expected)
		})
	}
}

func TestPathParametersReachHandlers(t *testing.T) {
	store := db.NewMemoryStore()
	hub := ws.NewHub()
	coord := session.New(store, hub)
	t.Cleanup(coord.Close)
	mux := NewRouter(coord, hub)

	poll := testutil.CreateTestPoll(t, coord, "Routed?", []string{"a", "b"}, 60)

	req := testutil.MakeRequest("GET", "/api/polls/"+poll.ID+"/results", nil, nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.Poll
	testutil.AssertJSON(t, w, &got)
	if got.ID != poll.ID {
		t.Errorf("Expected poll %s, got %s", poll.ID, got.ID)
	}
}
