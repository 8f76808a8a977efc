// Package gate implements the lead gate in front of a run's full result set:
// the resolver that decides whether the gate must be shown, and the gate
// submission itself.
package gate

import (
	"context"

	"github.com/zvtnav/zvt-navigator/internal/scoringapi"
)

type Action string

const (
	ActionShowGate    Action = "show_gate"
	ActionShowResults Action = "show_results"
)

// FlagStore is the per-run unlock flag persisted client-side. It is keyed by
// run id and injected so tests can fake it; it is advisory state, not a
// security control.
type FlagStore interface {
	Unlocked(runID string) (bool, error)
	SetUnlocked(runID string) error
}

// RunFetcher fetches a stored run from the scoring backend.
type RunFetcher interface {
	GetRun(ctx context.Context, runID string) (scoringapi.Run, error)
}

type Resolution struct {
	Action Action
	Run    *scoringapi.Run
}

// Resolver decides whether the results view for a run may render or the lead
// gate has to run first.
type Resolver struct {
	flags  FlagStore
	client RunFetcher
}

func NewResolver(flags FlagStore, client RunFetcher) *Resolver {
	return &Resolver{flags: flags, client: client}
}

// Resolve checks the unlock flag for a run. While the flag is unset the run
// is not fetched at all, so no result data leaks ahead of the gate. Once set,
// the run is fetched and returned; a fetch failure propagates as a retryable
// error and never silently falls back to the gate.
func (r *Resolver) Resolve(ctx context.Context, runID string) (Resolution, error) {
	unlocked, err := r.flags.Unlocked(runID)
	if err != nil {
		return Resolution{}, err
	}
	if !unlocked {
		return Resolution{Action: ActionShowGate}, nil
	}

	run, err := r.client.GetRun(ctx, runID)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Action: ActionShowResults, Run: &run}, nil
}
