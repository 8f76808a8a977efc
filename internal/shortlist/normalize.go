package shortlist

import "encoding/json"

// WireResponse mirrors the scoring backend's response as it appears on the
// wire, including the field names older backend revisions used. The schema
// drifted over time: the quality label shipped as "plausibility" before it
// was renamed to "reliability", and early revisions sent neither the label
// nor a status field.
type WireResponse struct {
	RunID       string      `json:"run_id"`
	Candidates  []Candidate `json:"candidates"`
	Ambiguity   Level       `json:"ambiguity"`
	GeneratedAt string      `json:"generated_at"`
	Status      Status      `json:"status"`
	Notices     []string    `json:"notices"`
	Reasons     []string    `json:"reasons"`

	Reliability         Level    `json:"reliability"`
	ReliabilityReasons  []string `json:"reliability_reasons"`
	Plausibility        Level    `json:"plausibility"`
	PlausibilityReasons []string `json:"plausibility_reasons"`

	Diagnostics json.RawMessage `json:"diagnostics,omitempty"`
}

// Normalize folds the wire shape into the canonical Response. It runs exactly
// once, at response ingestion; nothing downstream looks at wire fields.
func Normalize(w WireResponse) Response {
	resp := Response{
		RunID:       w.RunID,
		Candidates:  w.Candidates,
		Ambiguity:   w.Ambiguity,
		GeneratedAt: w.GeneratedAt,
		Status:      w.Status,
		Notices:     w.Notices,
		Reasons:     w.Reasons,
	}

	resp.Reliability = w.Reliability
	resp.ReliabilityReasons = w.ReliabilityReasons
	if resp.Reliability == "" {
		resp.Reliability = w.Plausibility
	}
	if len(resp.ReliabilityReasons) == 0 {
		resp.ReliabilityReasons = w.PlausibilityReasons
	}

	if resp.Status == "" {
		if len(resp.Candidates) == 0 {
			resp.Status = StatusNoResult
		} else {
			resp.Status = StatusOK
		}
	}
	return resp
}
