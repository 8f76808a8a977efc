// Package webapp is the browser-facing server: it serves the static UI and
// the JSON API the pages drive, and owns the per-session wiring of wizard,
// lead gate and run resolution.
package webapp

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zvtnav/zvt-navigator/internal/clientstore"
	"github.com/zvtnav/zvt-navigator/internal/gate"
	"github.com/zvtnav/zvt-navigator/internal/report"
	"github.com/zvtnav/zvt-navigator/internal/scoringapi"
	"github.com/zvtnav/zvt-navigator/internal/shortlist"
	"github.com/zvtnav/zvt-navigator/internal/wizard"
)

const sessionCookie = "zvt_session"

// Backend is the scoring service contract the server consumes.
type Backend interface {
	SubmitShortlist(ctx context.Context, req shortlist.Request) (string, error)
	GetRun(ctx context.Context, runID string) (scoringapi.Run, error)
	RegisterLead(ctx context.Context, runID, email, company string, consent bool) error
	ExportPDF(ctx context.Context, runID string) ([]byte, error)
}

type Server struct {
	backend  Backend
	notifier gate.Notifier
	store    *clientstore.Store
	leadCfg  gate.Config
	webDir   string
	pdf      report.Renderer

	mu      sync.Mutex
	engines map[string]*wizard.Engine
}

func NewServer(backend Backend, notifier gate.Notifier, store *clientstore.Store, leadCfg gate.Config, webDir string) http.Handler {
	return newServer(backend, notifier, store, leadCfg, webDir, report.NewChromiumRenderer())
}

func newServer(backend Backend, notifier gate.Notifier, store *clientstore.Store, leadCfg gate.Config, webDir string, pdf report.Renderer) http.Handler {
	s := &Server{
		backend:  backend,
		notifier: notifier,
		store:    store,
		leadCfg:  leadCfg,
		webDir:   webDir,
		pdf:      pdf,
		engines:  make(map[string]*wizard.Engine),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/catalog", s.handleCatalog)
	mux.HandleFunc("/api/wizard", s.handleWizardState)
	mux.HandleFunc("/api/wizard/", s.handleWizardAction)
	mux.HandleFunc("/api/run/", s.handleRun)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func writeFieldError(w http.ResponseWriter, field, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": msg, "field": field})
}

// session returns the browser session id, creating the cookie on first
// contact. The id only scopes draft and unlock state; it carries no identity.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	id := hex.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (s *Server) engine(session string) (*wizard.Engine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if eng, ok := s.engines[session]; ok {
		return eng, nil
	}
	eng, err := wizard.New(s.store.Session(session), s.backend)
	if err != nil {
		return nil, err
	}
	s.engines[session] = eng
	return eng, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"therapy_areas":    shortlist.TherapyAreas,
		"settings":         shortlist.Settings,
		"roles":            shortlist.Roles,
		"lines":            shortlist.Lines,
		"comparator_types": shortlist.ComparatorTypes,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	// Prevent stale frontend bundles from breaking the UI after deploys.
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Path == "/" || r.URL.Path == "/index.html" {
		http.ServeFile(w, r, filepath.Join(s.webDir, "index.html"))
		return
	}
	path := filepath.Join(s.webDir, filepath.Clean(r.URL.Path))
	if _, err := fs.Stat(os.DirFS(s.webDir), strings.TrimPrefix(filepath.Clean(r.URL.Path), "/")); err == nil {
		http.ServeFile(w, r, path)
		return
	}
	http.NotFound(w, r)
}

// translateBackendError maps the scoring client taxonomy onto HTTP responses:
// validation problems stay 400 and inline, service failures become a
// retryable 502, a missing run is terminal 404.
func translateBackendError(w http.ResponseWriter, err error) {
	var verr *scoringapi.ValidationError
	var nferr *scoringapi.NotFoundError
	var serr *scoringapi.ServiceError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Detail)
	case errors.As(err, &nferr):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": "This result is no longer available.",
			"next":  "/",
		})
	case errors.As(err, &serr):
		writeError(w, http.StatusBadGateway, "The scoring service is currently unavailable. Please try again.")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
