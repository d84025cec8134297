// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/classpoll/models"
	"github.com/danielhkuo/classpoll/testutil"
)

func TestSendMessageEndpoint(t *testing.T) {
	coord, _, rec := testutil.NewCoordinator(t)
	handler := NewChatHandler(coord)

	req := testutil.MakeRequest("POST", "/api/chat/send", models.SendChatRequest{
		SenderName: "Ana",
		Message:    "hello",
		SenderType: models.SenderStudent,
	}, nil)
	w := httptest.NewRecorder()
	handler.SendMessage(w, req)

	testutil.AssertStatus(t, w, http.StatusCreated)

	var msg models.ChatMessage
	testutil.AssertJSON(t, w, &msg)
	if msg.ID == "" || msg.Message != "hello" {
		t.Errorf("Unexpected message: %+v", msg)
	}

	if got := rec.AllNamed(models.EventChatMessage); len(got) != 1 {
		t.Errorf("Expected 1 chat broadcast, got %d", len(got))
	}
}

func TestSendMessageEndpointRejectsBadInput(t *testing.T) {
	coord, _, _ := testutil.NewCoordinator(t)
	handler := NewChatHandler(coord)

	cases := []struct {
		name string
		body models.SendChatRequest
	}{
		{"missing message", models.SendChatRequest{SenderName: "Ana", SenderType: models.SenderStudent}},
		{"missing sender", models.SendChatRequest{Message: "hi", SenderType: models.SenderStudent}},
		{"bad sender type", models.SendChatRequest{SenderName: "Ana", Message: "hi", SenderType: "moderator"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/chat/send", tc.body, nil)
			w := httptest.NewRecorder()
			handler.SendMessage(w, req)

			testutil.AssertStatus(t, w, http.StatusBadRequest)
		})
	}
}

func TestGetRecentMessagesEndpoint(t *testing.T) {
	coord, _, _ := testutil.NewCoordinator(t)
	handler := NewChatHandler(coord)

	for i := 0; i < 5; i++ {
		if _, err := coord.SendChat("Ana", fmt.Sprintf("message %d", i), models.SenderStudent); err != nil {
			t.Fatalf("Failed to send message: %v", err)
		}
	}

	t.Run("default limit returns everything", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/chat/messages", nil, nil)
		w := httptest.NewRecorder()
		handler.GetRecentMessages(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var messages []models.ChatMessage
		testutil.AssertJSON(t, w, &messages)
		if len(messages) != 5 {
			t.Fatalf("Expected 5 messages, got %d", len(messages))
		}
		if messages[0].Message != "message 0" || messages[4].Message != "message 4" {
			t.Errorf("Expected chronological order, got %q .. %q", messages[0].Message, messages[4].Message)
		}
	})

	t.Run("limit keeps the newest", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/chat/messages?limit=2", nil, nil)
		w := httptest.NewRecorder()
		handler.GetRecentMessages(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)

		var messages []models.ChatMessage
		testutil.AssertJSON(t, w, &messages)
		if len(messages) != 2 {
			t.Fatalf("Expected 2 messages, got %d", len(messages))
		}
		if messages[1].Message != "message 4" {
			t.Errorf("Expected the newest message last, got %q", messages[1].Message)
		}
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/api/chat/messages?limit=abc", nil, nil)
		w := httptest.NewRecorder()
		handler.GetRecentMessages(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
