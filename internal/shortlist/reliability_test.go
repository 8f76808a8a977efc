package shortlist

import (
	"reflect"
	"testing"
)

func respWith(rel Level, status Status, candidates []Candidate, ambiguity Level, reasons ...string) Response {
	return Response{
		RunID:       "r1",
		Candidates:  candidates,
		Ambiguity:   ambiguity,
		Status:      status,
		Reliability: rel,
		Reasons:     reasons,
	}
}

func TestDeriveUsesBackendLabelVerbatim(t *testing.T) {
	// Metrics alone would say hoch; the supplied label must win anyway.
	resp := respWith(LevelMittel, StatusOK, []Candidate{
		{Rank: 1, SupportCases: 5, Confidence: LevelHoch},
	}, LevelNiedrig)
	got := Derive(resp)
	if got.Reliability != LevelMittel {
		t.Fatalf("expected supplied label to win, got %s", got.Reliability)
	}
}

func TestDeriveComputesHochFromMetrics(t *testing.T) {
	resp := respWith("", StatusOK, []Candidate{
		{Rank: 1, SupportCases: 4, Confidence: LevelHoch},
	}, LevelNiedrig)
	got := Derive(resp)
	if got.Reliability != LevelHoch {
		t.Fatalf("expected derived hoch, got %s", got.Reliability)
	}
	found := false
	for _, r := range got.Reasons {
		if r == "clear separation between top option and alternatives" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected clear-separation reason, got %v", got.Reasons)
	}
}

func TestDeriveComputesNiedrigForWeakEvidence(t *testing.T) {
	resp := respWith("", StatusOK, []Candidate{
		{Rank: 1, SupportCases: 1, Confidence: LevelNiedrig},
	}, LevelMittel)
	if got := Derive(resp); got.Reliability != LevelNiedrig {
		t.Fatalf("expected niedrig for weak evidence with weak confidence, got %s", got.Reliability)
	}

	resp = respWith("", StatusOK, []Candidate{
		{Rank: 1, SupportCases: 1, Confidence: LevelMittel},
	}, LevelHoch)
	if got := Derive(resp); got.Reliability != LevelNiedrig {
		t.Fatalf("expected niedrig for weak evidence with high ambiguity, got %s", got.Reliability)
	}
}

func TestDeriveTooGenericForcesNiedrig(t *testing.T) {
	resp := respWith("", StatusOK, []Candidate{
		{Rank: 1, SupportCases: 5, Confidence: LevelHoch},
	}, LevelNiedrig, "TOO_GENERIC")
	if got := Derive(resp); got.Reliability != LevelNiedrig {
		t.Fatalf("expected TOO_GENERIC to force niedrig, got %s", got.Reliability)
	}
}

func TestDeriveComputesMittelInBetween(t *testing.T) {
	resp := respWith("", StatusOK, []Candidate{
		{Rank: 1, SupportCases: 2, Confidence: LevelMittel},
	}, LevelMittel)
	if got := Derive(resp); got.Reliability != LevelMittel {
		t.Fatalf("expected mittel, got %s", got.Reliability)
	}
}

func TestFallbackReasonsCappedAtTwoInPriorityOrder(t *testing.T) {
	// All four mittel conditions hold; only the first two fire.
	resp := respWith(LevelMittel, StatusOK, []Candidate{
		{Rank: 1, SupportCases: 2, Confidence: LevelNiedrig},
	}, LevelHoch)
	got := Derive(resp)
	want := []string{
		"only two similar decisions available",
		"multiple comparators similarly plausible",
	}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Fatalf("expected %v, got %v", want, got.Reasons)
	}
}

func TestFallbackReasonsMittelAmbiguityBranches(t *testing.T) {
	resp := respWith(LevelMittel, StatusOK, []Candidate{
		{Rank: 1, SupportCases: 4, Confidence: LevelNiedrig},
	}, LevelMittel)
	got := Derive(resp)
	want := []string{
		"discriminative power only moderate",
		"match strength weak",
	}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Fatalf("expected %v, got %v", want, got.Reasons)
	}
}

func TestFallbackReasonsHochIncludeCaseCount(t *testing.T) {
	resp := respWith(LevelHoch, StatusOK, []Candidate{
		{Rank: 1, SupportCases: 7, Confidence: LevelHoch},
	}, LevelNiedrig)
	got := Derive(resp)
	want := []string{
		"7 comparable decisions support the top option",
		"clear separation between top option and alternatives",
	}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Fatalf("expected %v, got %v", want, got.Reasons)
	}
}

func TestNiedrigSynthesizesNoReasons(t *testing.T) {
	resp := respWith(LevelNiedrig, StatusOK, []Candidate{{Rank: 1}}, LevelHoch)
	if got := Derive(resp); len(got.Reasons) != 0 {
		t.Fatalf("niedrig must not synthesize reasons, got %v", got.Reasons)
	}
}

func TestBackendReasonsWinOverSynthesis(t *testing.T) {
	resp := respWith(LevelMittel, StatusOK, []Candidate{
		{Rank: 1, SupportCases: 2, Confidence: LevelNiedrig},
	}, LevelHoch)
	resp.ReliabilityReasons = []string{"backend says so", "and again", "third"}
	got := Derive(resp)
	want := []string{"backend says so", "and again"}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Fatalf("expected backend reasons capped at two, got %v", got.Reasons)
	}
}

func TestGenericSentenceIsFiltered(t *testing.T) {
	resp := respWith(LevelMittel, StatusOK, []Candidate{
		{Rank: 1, SupportCases: 2, Confidence: LevelMittel},
	}, LevelHoch)
	resp.ReliabilityReasons = []string{GenericReliabilityReason, "specific reason"}
	got := Derive(resp)
	if !reflect.DeepEqual(got.Reasons, []string{"specific reason"}) {
		t.Fatalf("expected generic sentence filtered, got %v", got.Reasons)
	}

	// When filtering leaves nothing, synthesis kicks in.
	resp.ReliabilityReasons = []string{GenericReliabilityReason}
	got = Derive(resp)
	want := []string{
		"only two similar decisions available",
		"multiple comparators similarly plausible",
	}
	if !reflect.DeepEqual(got.Reasons, want) {
		t.Fatalf("expected synthesized reasons after filtering, got %v", got.Reasons)
	}
}

func TestIsNoResultPredicate(t *testing.T) {
	base := respWith("", StatusOK, []Candidate{{Rank: 1, SupportCases: 3, Confidence: LevelHoch}}, LevelNiedrig)
	if got := Derive(base); got.NoResult {
		t.Fatal("healthy response must not be no-result")
	}

	empty := respWith("", StatusOK, nil, LevelNiedrig)
	if got := Derive(empty); !got.NoResult {
		t.Fatal("empty candidates must be no-result")
	}

	statusNR := respWith("", StatusNoResult, []Candidate{{Rank: 1, SupportCases: 3, Confidence: LevelHoch}}, LevelNiedrig)
	if got := Derive(statusNR); !got.NoResult {
		t.Fatal("status no_result must be no-result")
	}

	lowRel := respWith(LevelNiedrig, StatusOK, []Candidate{{Rank: 1, SupportCases: 3, Confidence: LevelHoch}}, LevelNiedrig)
	if got := Derive(lowRel); !got.NoResult {
		t.Fatal("niedrig reliability must be no-result")
	}
}

func TestDistinctivenessMapping(t *testing.T) {
	cases := map[Level]Level{
		LevelNiedrig: LevelHoch,
		LevelMittel:  LevelMittel,
		LevelHoch:    LevelNiedrig,
		"":           LevelMittel,
		"unbekannt":  LevelMittel,
	}
	for in, want := range cases {
		if got := Distinctiveness(in); got != want {
			t.Fatalf("Distinctiveness(%q) = %q, want %q", in, got, want)
		}
	}
}
