package webapp

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/zvtnav/zvt-navigator/internal/shortlist"
	"github.com/zvtnav/zvt-navigator/internal/wizard"
)

func (s *Server) handleWizardState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	eng, err := s.engine(s.session(w, r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to restore draft")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"step":   eng.Step(),
		"steps":  wizard.StepCount,
		"values": eng.Values(),
	})
}

func (s *Server) handleWizardAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	action := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/wizard/"), "/")

	eng, err := s.engine(s.session(w, r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to restore draft")
		return
	}

	switch action {
	case "values":
		var patch map[string]string
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := eng.Apply(patch); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist draft")
			return
		}
	case "advance":
		if err := eng.Advance(); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist draft")
			return
		}
	case "retreat":
		eng.Retreat()
	case "reset":
		if err := eng.Reset(); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to clear draft")
			return
		}
	case "submit":
		s.handleWizardSubmit(w, r, eng)
		return
	default:
		http.NotFound(w, r)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"step":   eng.Step(),
		"steps":  wizard.StepCount,
		"values": eng.Values(),
	})
}

func (s *Server) handleWizardSubmit(w http.ResponseWriter, r *http.Request, eng *wizard.Engine) {
	runID, err := eng.Submit(r.Context())
	if err != nil {
		var ierr *shortlist.InvalidRequestError
		switch {
		case errors.As(err, &ierr):
			writeFieldError(w, ierr.Field, ierr.Message)
		case errors.Is(err, wizard.ErrInFlight):
			writeError(w, http.StatusConflict, "A submission is already running.")
		default:
			translateBackendError(w, err)
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"run_id": runID,
		"next":   "/lead/" + runID,
	})
}
