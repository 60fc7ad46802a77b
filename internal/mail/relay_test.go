package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRelayClient_Send_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send" {
			t.Errorf("unexpected path: %q", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %q", r.Method)
		}

		var req relayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.From != "no-reply@makerspace.edu" {
			t.Errorf("from = %q, want %q", req.From, "no-reply@makerspace.edu")
		}
		if req.To != "taro@example.edu" {
			t.Errorf("to = %q, want %q", req.To, "taro@example.edu")
		}
		if req.Subject != "Verification token" {
			t.Errorf("subject = %q, want %q", req.Subject, "Verification token")
		}
		if req.Body == "" {
			t.Error("expected non-empty body")
		}

		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := NewRelayClient(RelayConfig{
		BaseURL: server.URL,
		From:    "no-reply@makerspace.edu",
	})

	err := client.Send(context.Background(), Message{
		To:      "taro@example.edu",
		Subject: "Verification token",
		Body:    "Your token is: abc",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
}

func TestRelayClient_Send_RelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewRelayClient(RelayConfig{
		BaseURL: server.URL,
		From:    "no-reply@makerspace.edu",
	})

	err := client.Send(context.Background(), Message{
		To:      "taro@example.edu",
		Subject: "Verification token",
		Body:    "Your token is: abc",
	})
	if err == nil {
		t.Fatal("expected error for relay failure, got nil")
	}
}
