package webapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/zvtnav/zvt-navigator/internal/clientstore"
	"github.com/zvtnav/zvt-navigator/internal/gate"
	"github.com/zvtnav/zvt-navigator/internal/report"
	"github.com/zvtnav/zvt-navigator/internal/scoringapi"
	"github.com/zvtnav/zvt-navigator/internal/shortlist"
)

// handleRun dispatches /api/run/{id}[/resolve|/lead|/pdf].
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/run/"), "/")
	parts := strings.SplitN(path, "/", 2)
	if parts[0] == "" {
		writeError(w, http.StatusBadRequest, "run id is required")
		return
	}
	runID := parts[0]
	sess := s.store.Session(s.session(w, r))

	sub := ""
	if len(parts) == 2 {
		sub = parts[1]
	}
	switch sub {
	case "":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleRunGet(w, r, sess, runID)
	case "resolve":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleRunResolve(w, r, sess, runID)
	case "lead":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleRunLead(w, r, sess, runID)
	case "pdf":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		s.handleRunPDF(w, r, sess, runID)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleRunResolve(w http.ResponseWriter, r *http.Request, sess *clientstore.Session, runID string) {
	res, err := gate.NewResolver(sess, s.backend).Resolve(r.Context(), runID)
	if err != nil {
		translateBackendError(w, err)
		return
	}
	payload := map[string]any{"action": res.Action}
	if res.Run != nil {
		payload["run"] = runView(*res.Run)
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleRunLead(w http.ResponseWriter, r *http.Request, sess *clientstore.Session, runID string) {
	var body struct {
		Email   string `json:"email"`
		Company string `json:"company"`
		Consent bool   `json:"consent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lg := gate.NewLeadGate(sess, s.backend, s.notifier, s.leadCfg)
	if err := lg.Submit(r.Context(), runID, body.Email, body.Company, body.Consent); err != nil {
		var ferr *gate.FieldError
		if errors.As(err, &ferr) {
			writeFieldError(w, ferr.Field, ferr.Message)
			return
		}
		translateBackendError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"next": "/run/" + runID,
	})
}

// handleRunGet serves the canonical run once the gate has been passed. For a
// locked run whose stored response is a no-result outcome the flag is set
// automatically: a result the product considers non-deliverable is never
// paywalled.
func (s *Server) handleRunGet(w http.ResponseWriter, r *http.Request, sess *clientstore.Session, runID string) {
	run, _, ok := s.unlockedRun(w, r, sess, runID)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, runView(run))
}

func (s *Server) handleRunPDF(w http.ResponseWriter, r *http.Request, sess *clientstore.Session, runID string) {
	if _, _, ok := s.unlockedRun(w, r, sess, runID); !ok {
		return
	}

	pdf, err := s.backend.ExportPDF(r.Context(), runID)
	if err != nil {
		var serr *scoringapi.ServiceError
		if !errors.As(err, &serr) || s.pdf == nil {
			translateBackendError(w, err)
			return
		}
		// Backend export is down; render locally so the download still works.
		log.Printf("backend pdf export failed run=%s, rendering locally: %v", runID, err)
		run, rerr := s.backend.GetRun(r.Context(), runID)
		if rerr != nil {
			translateBackendError(w, rerr)
			return
		}
		pdf, rerr = s.pdf.Render(r.Context(), report.BuildMarkdown(run))
		if rerr != nil {
			log.Printf("local pdf render failed run=%s: %v", runID, rerr)
			writeError(w, http.StatusBadGateway, "PDF export is currently unavailable. Please try again.")
			return
		}
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "zVT_Shortlist-"+sanitizeFilename(runID)+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// unlockedRun enforces the lead gate for result-bearing endpoints. It returns
// the run only when the session has passed the gate or the run falls under
// the no-result bypass.
func (s *Server) unlockedRun(w http.ResponseWriter, r *http.Request, sess *clientstore.Session, runID string) (scoringapi.Run, shortlist.Assessment, bool) {
	unlocked, err := sess.Unlocked(runID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read unlock state")
		return scoringapi.Run{}, shortlist.Assessment{}, false
	}

	run, err := s.backend.GetRun(r.Context(), runID)
	if err != nil {
		translateBackendError(w, err)
		return scoringapi.Run{}, shortlist.Assessment{}, false
	}
	assessment := shortlist.Derive(run.Response)

	if !unlocked {
		if !assessment.NoResult {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error":  "Please leave your email address to view the full result.",
				"action": gate.ActionShowGate,
			})
			return scoringapi.Run{}, shortlist.Assessment{}, false
		}
		if err := sess.SetUnlocked(runID); err != nil {
			log.Printf("auto-unlock failed run=%s: %v", runID, err)
		}
	}
	return run, assessment, true
}

// runView is the canonical payload the results page renders: the stored run
// plus the derived quality signals.
func runView(run scoringapi.Run) map[string]any {
	assessment := shortlist.Derive(run.Response)
	return map[string]any{
		"run_id":           run.RunID,
		"request_payload":  run.Request,
		"response_payload": run.Response,
		"assessment":       assessment,
		"distinctiveness":  shortlist.Distinctiveness(run.Response.Ambiguity),
		"created_at":       run.CreatedAt,
	}
}

func sanitizeFilename(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "report"
	}
	v = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, v)
	return v
}
