// Package wizard drives the three-step intake flow that builds a shortlist
// request: therapy area, indication, context. The engine is a linear state
// machine with no branching and no skip-ahead; field validation happens once,
// at final submission.
package wizard

import (
	"context"
	"errors"
	"sync"

	"github.com/zvtnav/zvt-navigator/internal/shortlist"
)

// StepCount is fixed; the step index is clamped to [0, StepCount-1], never
// wrapped.
const StepCount = 3

const (
	StepTherapyArea = 0
	StepIndication  = 1
	StepContext     = 2
)

// ErrInFlight is returned when Submit is called while a previous submission
// has not settled yet. The triggering control stays disabled for the call's
// duration, so hitting this means a second click raced the first.
var ErrInFlight = errors.New("submission already in flight")

// DraftStore persists the in-progress request across page loads.
type DraftStore interface {
	LoadDraft() (shortlist.Request, bool, error)
	SaveDraft(shortlist.Request) error
	ClearDraft() error
}

// Submitter hands a validated request to the scoring backend.
type Submitter interface {
	SubmitShortlist(ctx context.Context, req shortlist.Request) (string, error)
}

type Engine struct {
	mu       sync.Mutex
	step     int
	values   shortlist.Request
	hasDraft bool
	inFlight bool

	drafts DraftStore
	client Submitter
}

// New builds an engine at step 0 with values restored from the draft store,
// or empty when no draft exists.
func New(drafts DraftStore, client Submitter) (*Engine, error) {
	values, ok, err := drafts.LoadDraft()
	if err != nil {
		return nil, err
	}
	return &Engine{
		values:   values,
		hasDraft: ok,
		drafts:   drafts,
		client:   client,
	}, nil
}

func (e *Engine) Step() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

func (e *Engine) Values() shortlist.Request {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values
}

// Apply merges a field patch into the accumulated values. The first write
// creates the draft; later writes are only persisted on step transitions.
func (e *Engine) Apply(patch map[string]string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.values.Apply(patch)
	if !e.hasDraft && !e.values.IsEmpty() {
		if err := e.drafts.SaveDraft(e.values); err != nil {
			return err
		}
		e.hasDraft = true
	}
	return nil
}

// Advance persists the draft and moves one step forward. At the last step it
// is a no-op; submission is a separate operation.
func (e *Engine) Advance() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.step >= StepCount-1 {
		return nil
	}
	if err := e.drafts.SaveDraft(e.values); err != nil {
		return err
	}
	e.hasDraft = true
	e.step++
	return nil
}

// Retreat moves one step back. Values are unchanged, so nothing is persisted.
func (e *Engine) Retreat() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.step > 0 {
		e.step--
	}
}

// Submit validates the accumulated values and hands them to the backend.
// Validation failure surfaces the first violated constraint and never touches
// the network. A backend failure leaves values and step untouched so the user
// can retry without re-entering anything; success clears the draft and resets
// the engine for the next request.
func (e *Engine) Submit(ctx context.Context) (string, error) {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return "", ErrInFlight
	}
	values := e.values
	if err := values.Validate(); err != nil {
		e.mu.Unlock()
		return "", err
	}
	e.inFlight = true
	e.mu.Unlock()

	runID, err := e.client.SubmitShortlist(ctx, values)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight = false
	if err != nil {
		return "", err
	}

	if err := e.drafts.ClearDraft(); err != nil {
		// The run exists; a failed draft cleanup must not look like a failed
		// submission.
		return runID, nil
	}
	e.step = 0
	e.values = shortlist.Request{}
	e.hasDraft = false
	return runID, nil
}

// Reset clears the draft and returns the engine to an empty step 0. Backs the
// explicit "new request" action.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.drafts.ClearDraft(); err != nil {
		return err
	}
	e.step = 0
	e.values = shortlist.Request{}
	e.hasDraft = false
	return nil
}
