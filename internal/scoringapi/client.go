package scoringapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zvtnav/zvt-navigator/internal/shortlist"
)

// Run is a server-persisted (request, response) pair addressed by an opaque
// identifier. Immutable once created; the client only re-fetches.
type Run struct {
	RunID     string             `json:"run_id"`
	Request   shortlist.Request  `json:"request_payload"`
	Response  shortlist.Response `json:"response_payload"`
	CreatedAt string             `json:"created_at"`
}

// Client talks to the scoring backend. All methods are single-shot: no
// automatic retries, one HTTP exchange per call.
type Client struct {
	baseURL string
	http    *http.Client
	tracer  trace.Tracer
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		tracer: otel.Tracer("zvt-navigator/scoringapi"),
	}
}

// SubmitShortlist sends a validated request and returns the assigned run id.
func (c *Client) SubmitShortlist(ctx context.Context, req shortlist.Request) (string, error) {
	ctx, span := c.tracer.Start(ctx, "scoringapi.SubmitShortlist",
		trace.WithAttributes(attribute.String("shortlist.therapy_area", string(req.TherapyArea))))
	defer span.End()

	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode shortlist request: %w", err)
	}
	body, err := c.do(ctx, http.MethodPost, "/api/shortlist", payload, "")
	if err != nil {
		span.RecordError(err)
		return "", err
	}

	var resp struct {
		RunID string `json:"run_id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ServiceError{Detail: fmt.Sprintf("malformed shortlist response: %v", err)}
	}
	if strings.TrimSpace(resp.RunID) == "" {
		return "", &ServiceError{Detail: "shortlist response missing run_id"}
	}
	span.SetAttributes(attribute.String("shortlist.run_id", resp.RunID))
	return resp.RunID, nil
}

// GetRun fetches a stored run and normalizes its response payload into the
// canonical shape. This is the only place wire responses are ingested.
func (c *Client) GetRun(ctx context.Context, runID string) (Run, error) {
	ctx, span := c.tracer.Start(ctx, "scoringapi.GetRun",
		trace.WithAttributes(attribute.String("shortlist.run_id", runID)))
	defer span.End()

	body, err := c.do(ctx, http.MethodGet, "/api/run/"+url.PathEscape(runID), nil, runID)
	if err != nil {
		span.RecordError(err)
		return Run{}, err
	}

	var wire struct {
		RunID     string                 `json:"run_id"`
		Request   shortlist.Request      `json:"request_payload"`
		Response  shortlist.WireResponse `json:"response_payload"`
		CreatedAt string                 `json:"created_at"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return Run{}, &ServiceError{Detail: fmt.Sprintf("malformed run response: %v", err)}
	}
	return Run{
		RunID:     wire.RunID,
		Request:   wire.Request,
		Response:  shortlist.Normalize(wire.Response),
		CreatedAt: wire.CreatedAt,
	}, nil
}

// RegisterLead stores an email/consent lead for a run. This call must succeed
// before the run is unlocked client-side.
func (c *Client) RegisterLead(ctx context.Context, runID, email, company string, consent bool) error {
	ctx, span := c.tracer.Start(ctx, "scoringapi.RegisterLead",
		trace.WithAttributes(attribute.String("shortlist.run_id", runID)))
	defer span.End()

	payload, err := json.Marshal(map[string]any{
		"run_id":  runID,
		"email":   email,
		"company": company,
		"consent": consent,
	})
	if err != nil {
		return fmt.Errorf("encode lead request: %w", err)
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/leads", payload, runID); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// ExportPDF fetches the backend-rendered PDF for a run.
func (c *Client) ExportPDF(ctx context.Context, runID string) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "scoringapi.ExportPDF",
		trace.WithAttributes(attribute.String("shortlist.run_id", runID)))
	defer span.End()

	blob, err := c.do(ctx, http.MethodGet, "/api/export/pdf?run_id="+url.QueryEscape(runID), nil, runID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return blob, nil
}

// do performs one HTTP exchange and maps failures onto the error taxonomy:
// 404 -> NotFoundError, other 4xx -> ValidationError with the diagnostic
// body, 5xx and transport errors -> ServiceError.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, runID string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ServiceError{Detail: err.Error()}
	}
	defer resp.Body.Close()

	blob, _ := io.ReadAll(resp.Body)
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{RunID: runID}
	case resp.StatusCode >= 500:
		return nil, &ServiceError{Status: resp.StatusCode, Detail: strings.TrimSpace(string(blob))}
	case resp.StatusCode >= 400:
		return nil, &ValidationError{Detail: strings.TrimSpace(string(blob))}
	}
	return blob, nil
}
