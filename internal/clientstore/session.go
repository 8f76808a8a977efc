package clientstore

import (
	"encoding/json"
	"fmt"

	"github.com/zvtnav/zvt-navigator/internal/shortlist"
)

// Storage keys. DraftKey is a singleton per session; unlock flags are keyed
// per run id. Both names are carried over from the browser build so state
// written by it stays readable.
const (
	DraftKey        = "amnog-shortlist-draft"
	unlockKeyPrefix = "lead_submitted:"
)

// Session is the store view for one browser session. It implements the draft
// store the wizard engine wants and the flag store the gate packages want.
type Session struct {
	store *Store
	id    string
}

func (v *Session) ID() string { return v.id }

// LoadDraft restores the in-progress request, reporting whether one exists.
// A corrupt draft is treated as absent rather than blocking the wizard.
func (v *Session) LoadDraft() (shortlist.Request, bool, error) {
	raw, ok, err := v.store.get(v.id, DraftKey)
	if err != nil || !ok {
		return shortlist.Request{}, false, err
	}
	var req shortlist.Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return shortlist.Request{}, false, nil
	}
	return req, true, nil
}

func (v *Session) SaveDraft(req shortlist.Request) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	return v.store.set(v.id, DraftKey, string(raw))
}

func (v *Session) ClearDraft() error {
	return v.store.delete(v.id, DraftKey)
}

// Unlocked reports whether the lead gate has been passed for a run.
func (v *Session) Unlocked(runID string) (bool, error) {
	raw, ok, err := v.store.get(v.id, unlockKeyPrefix+runID)
	if err != nil || !ok {
		return false, err
	}
	return raw == "true", nil
}

func (v *Session) SetUnlocked(runID string) error {
	return v.store.set(v.id, unlockKeyPrefix+runID, "true")
}

func (v *Session) ClearUnlocked(runID string) error {
	return v.store.delete(v.id, unlockKeyPrefix+runID)
}
