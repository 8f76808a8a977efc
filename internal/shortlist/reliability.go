package shortlist

import "fmt"

// GenericReliabilityReason is the catch-all sentence older backend revisions
// attach when they have nothing specific to say. As a bullet it would just
// repeat the prose paragraph below it, so it is filtered wherever reasons
// are rendered as a list.
const GenericReliabilityReason = "Assessment based on available decisions."

// reasonTooGeneric is the machine code the backend emits when the query text
// was too unspecific to score.
const reasonTooGeneric = "TOO_GENERIC"

const maxReliabilityReasons = 2

// Assessment is the derived quality signal for a run's top result.
type Assessment struct {
	Reliability Level    `json:"reliability"`
	Reasons     []string `json:"reasons"`
	NoResult    bool     `json:"no_result"`
}

// Derive computes the reliability label and up to two human-readable reasons
// for a canonical response. A backend-supplied label wins verbatim; the
// client-side computation only covers responses from revisions that predate
// the signal.
func Derive(resp Response) Assessment {
	rel := resp.Reliability
	if rel == "" {
		rel = deriveLabel(resp)
	}

	reasons := FilterGenericReason(resp.ReliabilityReasons)
	if len(reasons) == 0 {
		reasons = synthesizeReasons(rel, resp)
	}
	if len(reasons) > maxReliabilityReasons {
		reasons = reasons[:maxReliabilityReasons]
	}

	return Assessment{
		Reliability: rel,
		Reasons:     reasons,
		NoResult:    IsNoResult(resp, rel),
	}
}

// IsNoResult is the single predicate deciding whether a run counts as
// non-deliverable. It gates both the no-result UI branch and the lead-gate
// bypass; call sites must not re-derive it from parts.
func IsNoResult(resp Response, reliability Level) bool {
	return reliability == LevelNiedrig ||
		resp.Status == StatusNoResult ||
		len(resp.Candidates) == 0
}

// deriveLabel reconstructs the reliability label from candidate metrics the
// way the backend eventually came to compute it, restricted to signals the
// response actually carries.
func deriveLabel(resp Response) Level {
	if resp.Status == StatusNoResult || len(resp.Candidates) == 0 {
		return LevelNiedrig
	}

	top := resp.Candidates[0]
	cases := top.SupportCases
	highAmb := resp.Ambiguity == LevelHoch
	lowConf := top.Confidence == LevelNiedrig

	tooGeneric := false
	for _, r := range resp.Reasons {
		if r == reasonTooGeneric {
			tooGeneric = true
		}
	}

	switch {
	case tooGeneric:
		return LevelNiedrig
	case cases <= 1 && (lowConf || highAmb):
		return LevelNiedrig
	case cases >= 3 && top.Confidence == LevelHoch && !highAmb:
		return LevelHoch
	case cases >= 3 && resp.Ambiguity == LevelNiedrig:
		return LevelHoch
	default:
		return LevelMittel
	}
}

// synthesizeReasons builds fallback reasons when the backend supplied none.
// Order is fixed and the list is capped at two entries.
func synthesizeReasons(rel Level, resp Response) []string {
	if rel == LevelNiedrig || len(resp.Candidates) == 0 {
		// The no-result view shows fixed guidance instead of bullets.
		return nil
	}

	top := resp.Candidates[0]
	var out []string
	add := func(s string) {
		if len(out) < maxReliabilityReasons {
			out = append(out, s)
		}
	}

	switch rel {
	case LevelMittel:
		if top.SupportCases == 2 {
			add("only two similar decisions available")
		}
		if resp.Ambiguity == LevelHoch {
			add("multiple comparators similarly plausible")
		} else if resp.Ambiguity == LevelMittel {
			add("discriminative power only moderate")
		}
		if top.Confidence == LevelNiedrig {
			add("match strength weak")
		}
	case LevelHoch:
		if top.SupportCases >= 3 {
			add(fmt.Sprintf("%d comparable decisions support the top option", top.SupportCases))
		}
		if resp.Ambiguity == LevelNiedrig {
			add("clear separation between top option and alternatives")
		}
		if top.Confidence == LevelHoch {
			add("high matching confidence")
		}
	}
	return out
}

// FilterGenericReason drops the backend's catch-all sentence from a reason
// list. The remaining entries keep their order.
func FilterGenericReason(reasons []string) []string {
	var out []string
	for _, r := range reasons {
		if r == GenericReliabilityReason {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Distinctiveness maps the backend's ambiguity signal to the displayed
// "Eindeutigkeit" label: low ambiguity means high distinctiveness. The
// mapping is display-only; reliability is never re-derived from it.
func Distinctiveness(ambiguity Level) Level {
	switch ambiguity {
	case LevelNiedrig:
		return LevelHoch
	case LevelHoch:
		return LevelNiedrig
	default:
		return LevelMittel
	}
}
