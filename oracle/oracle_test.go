package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestComplete_ReturnsAssistantText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"finish_reason": "stop", "message": map[string]any{"role": "assistant", "content": `{"ok":true}`}},
			},
		})
	}))
	defer srv.Close()

	c, err := NewHTTP(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	got, err := c.Complete(context.Background(), "extract")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `{"ok":true}` {
		t.Errorf("got %q", got)
	}
}

func TestComplete_UpstreamErrorPropagates(t *testing.T) {
	// WHAT: Non-200 and error-object responses become Go errors.
	// WHY: The extractor's degrade path relies on errors, not empty text.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c, err := NewHTTP(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewHTTP: %v", err)
	}
	_, err = c.Complete(context.Background(), "extract")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry status: %v", err)
	}
}

func TestNewHTTP_RequiresBaseURL(t *testing.T) {
	if _, err := NewHTTP(Config{}); err == nil {
		t.Error("expected error for missing BaseURL")
	}
}
