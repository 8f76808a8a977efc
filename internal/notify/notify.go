// Package notify delivers new-lead notifications over an email relay. The
// whole package is a best-effort side channel: every failure is logged and
// swallowed so the lead flow never blocks on it.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const defaultEndpoint = "https://api.resend.com/emails"

// Relay sends lead notifications through a Resend-compatible email API.
// A Relay without an API key is valid and silently disabled.
type Relay struct {
	endpoint string
	apiKey   string
	from     string
	to       string
	http     *http.Client
}

func NewRelay(apiKey, from, to string) *Relay {
	return &Relay{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		from:     from,
		to:       to,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// WithEndpoint overrides the relay endpoint. Used by tests.
func (r *Relay) WithEndpoint(endpoint string) *Relay {
	r.endpoint = strings.TrimRight(endpoint, "/")
	return r
}

// NotifyLead emails the configured recipient about a new lead. The returned
// error is always nil; delivery problems only reach the log.
func (r *Relay) NotifyLead(ctx context.Context, runID, email, company string) error {
	if r.apiKey == "" {
		log.Printf("notify-lead disabled: no relay api key (run=%s email=%s)", runID, email)
		return nil
	}

	if company == "" {
		company = "-"
	}
	text := fmt.Sprintf("New zVT Navigator lead\nrun_id: %s\nemail: %s\ncompany: %s\ntimestamp: %s",
		runID, email, company, time.Now().UTC().Format(time.RFC3339))

	payload, _ := json.Marshal(map[string]any{
		"from":    r.from,
		"to":      []string{r.to},
		"subject": "New zVT Navigator lead",
		"text":    text,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Printf("notify-lead build request failed run=%s: %v", runID, err)
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		log.Printf("notify-lead send failed run=%s: %v", runID, err)
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		log.Printf("notify-lead relay rejected run=%s status=%d body=%s", runID, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
