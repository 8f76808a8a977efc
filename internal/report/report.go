// Package report renders a stored run as a printable document. The scoring
// backend normally serves the PDF export itself; this package is the local
// fallback so the download affordance keeps working when that export is
// unavailable.
package report

import (
	"fmt"
	"strings"

	"github.com/zvtnav/zvt-navigator/internal/scoringapi"
	"github.com/zvtnav/zvt-navigator/internal/shortlist"
)

const maxReferencesPerCandidate = 3

// BuildMarkdown produces the report body for a run: header, request context,
// the derived quality signals and the ranked candidates with up to three
// supporting references each.
func BuildMarkdown(run scoringapi.Run) string {
	resp := run.Response
	assessment := shortlist.Derive(resp)

	var b strings.Builder
	b.WriteString("# zVT Comparator Shortlist\n\n")
	fmt.Fprintf(&b, "Run-ID: %s\n\n", run.RunID)
	if run.Request.TherapyArea != "" {
		fmt.Fprintf(&b, "Therapiegebiet: %s\n\n", run.Request.TherapyArea)
	}
	if resp.GeneratedAt != "" {
		fmt.Fprintf(&b, "Generated: %s\n\n", resp.GeneratedAt)
	}

	fmt.Fprintf(&b, "## Assessment\n\n")
	fmt.Fprintf(&b, "- Reliability: %s\n", assessment.Reliability)
	fmt.Fprintf(&b, "- Distinctiveness: %s\n", shortlist.Distinctiveness(resp.Ambiguity))
	for _, reason := range assessment.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}
	b.WriteString("\n")

	if assessment.NoResult {
		b.WriteString("No deliverable comparator shortlist could be produced for this request. " +
			"Consider narrowing the indication text or adjusting the therapy context.\n")
		return b.String()
	}

	for _, notice := range resp.Notices {
		fmt.Fprintf(&b, "> %s\n\n", notice)
	}

	for _, c := range resp.Candidates {
		fmt.Fprintf(&b, "## #%d %s\n\n", c.Rank, c.CandidateText)
		fmt.Fprintf(&b, "Confidence: %s | Support: %.2f | Cases: %d\n\n", c.Confidence, c.SupportScore, c.SupportCases)
		refs := c.References
		if len(refs) > maxReferencesPerCandidate {
			refs = refs[:maxReferencesPerCandidate]
		}
		for _, ref := range refs {
			fmt.Fprintf(&b, "- %s (%s, %s) %s\n", ref.ProductName, ref.DecisionID, ref.DecisionDate, ref.URL)
		}
		if len(refs) > 0 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
