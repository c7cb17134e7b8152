package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newChatServer(t *testing.T, reply string, capture *ChatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if capture != nil {
			if err := json.NewDecoder(r.Body).Decode(capture); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
		}
		resp := ChatResponse{
			Choices: []ChatChoice{
				{Message: Message{Role: RoleAssistant, Content: reply}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClientComplete(t *testing.T) {
	var captured ChatRequest
	server := newChatServer(t, "the answer", &captured)
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")

	reply, err := client.Complete(context.Background(), "the prompt")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if reply != "the answer" {
		t.Errorf("Complete() = %q, want %q", reply, "the answer")
	}
	if captured.Model != "test-model" {
		t.Errorf("request model = %q, want client default", captured.Model)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Content != "the prompt" {
		t.Errorf("request messages = %+v, want single user prompt", captured.Messages)
	}
}

func TestClientChatWithMessages(t *testing.T) {
	var captured ChatRequest
	server := newChatServer(t, "Response", &captured)
	defer server.Close()

	client := NewClient(server.URL, "test-key", "default-model")

	messages := []Message{
		{Role: RoleSystem, Content: "You are helpful."},
		{Role: RoleUser, Content: "Hello"},
	}
	reply, err := client.ChatWithMessages(context.Background(), messages, ChatParams{Model: "override-model"})
	if err != nil {
		t.Fatalf("ChatWithMessages() error = %v", err)
	}
	if reply != "Response" {
		t.Errorf("ChatWithMessages() = %q, want Response", reply)
	}
	if captured.Model != "override-model" {
		t.Errorf("request model = %q, want override-model", captured.Model)
	}
	if len(captured.Messages) != 2 {
		t.Errorf("request carried %d messages, want 2", len(captured.Messages))
	}
}

func TestClientBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")

	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("Complete() expected error on 500 response")
	}
}

func TestClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key", "test-model")

	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("Complete() expected error on empty choices")
	}
}
