package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNotifyLeadDisabledWithoutAPIKey(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	t.Cleanup(srv.Close)

	relay := NewRelay("", "nav@example.com", "sales@example.com").WithEndpoint(srv.URL)
	if err := relay.NotifyLead(context.Background(), "r1", "jane@example.com", "Acme"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if hits != 0 {
		t.Fatalf("relay without api key must not send, hits=%d", hits)
	}
}

func TestNotifyLeadSendsPayload(t *testing.T) {
	var got struct {
		From    string   `json:"from"`
		To      []string `json:"to"`
		Subject string   `json:"subject"`
		Text    string   `json:"text"`
	}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
	}))
	t.Cleanup(srv.Close)

	relay := NewRelay("rk_test", "nav@example.com", "sales@example.com").WithEndpoint(srv.URL)
	if err := relay.NotifyLead(context.Background(), "r7", "jane@example.com", ""); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if auth != "Bearer rk_test" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if got.From != "nav@example.com" || len(got.To) != 1 || got.To[0] != "sales@example.com" {
		t.Fatalf("unexpected addressing: from=%q to=%v", got.From, got.To)
	}
	for _, want := range []string{"run_id: r7", "email: jane@example.com", "company: -"} {
		if !strings.Contains(got.Text, want) {
			t.Fatalf("text missing %q:\n%s", want, got.Text)
		}
	}
}

func TestNotifyLeadSwallowsRelayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid recipient"}`, http.StatusUnprocessableEntity)
	}))
	t.Cleanup(srv.Close)

	relay := NewRelay("rk_test", "nav@example.com", "sales@example.com").WithEndpoint(srv.URL)
	if err := relay.NotifyLead(context.Background(), "r1", "jane@example.com", "Acme"); err != nil {
		t.Fatalf("relay rejection must be swallowed, got %v", err)
	}
}

func TestNotifyLeadSwallowsTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	relay := NewRelay("rk_test", "nav@example.com", "sales@example.com").WithEndpoint(srv.URL)
	if err := relay.NotifyLead(context.Background(), "r1", "jane@example.com", "Acme"); err != nil {
		t.Fatalf("transport failure must be swallowed, got %v", err)
	}
}
