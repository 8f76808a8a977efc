package gate

import (
	"context"
	"log"
	"regexp"
	"strings"
)

// emailPattern accepts the usual local@domain.tld shape. Deliverability is
// the relay's problem; this only rejects obvious typos before any network
// call happens.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// FieldError is a user-fixable problem with one gate field. Previously
// entered values stay untouched when it is surfaced.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// LeadRegistrar stores the lead with the scoring backend.
type LeadRegistrar interface {
	RegisterLead(ctx context.Context, runID, email, company string, consent bool) error
}

// Notifier is the best-effort side channel; implementations swallow their own
// failures.
type Notifier interface {
	NotifyLead(ctx context.Context, runID, email, company string) error
}

// Config parameterizes the gate instead of forking it per UI variant.
type Config struct {
	// ConsentRequired mirrors whether the active UI shows privacy copy with a
	// consent checkbox.
	ConsentRequired bool
}

// LeadGate collects email, optional company and consent, registers the lead
// and unlocks the run.
type LeadGate struct {
	flags    FlagStore
	client   LeadRegistrar
	notifier Notifier
	cfg      Config
}

func NewLeadGate(flags FlagStore, client LeadRegistrar, notifier Notifier, cfg Config) *LeadGate {
	return &LeadGate{flags: flags, client: client, notifier: notifier, cfg: cfg}
}

// Submit runs the gate for one run. Order matters: the lead registration must
// succeed before anything else happens; the notification side channel fires
// after it and can fail freely; the unlock flag is written only once the
// registration has succeeded and never conditioned on the notification.
func (g *LeadGate) Submit(ctx context.Context, runID, email, company string, consent bool) error {
	email = strings.TrimSpace(email)
	company = strings.TrimSpace(company)

	if !emailPattern.MatchString(email) {
		return &FieldError{Field: "email", Message: "Please enter a valid email address."}
	}
	if g.cfg.ConsentRequired && !consent {
		return &FieldError{Field: "consent", Message: "Please accept the privacy policy."}
	}

	if err := g.client.RegisterLead(ctx, runID, email, company, consent); err != nil {
		return err
	}

	if g.notifier != nil {
		if err := g.notifier.NotifyLead(ctx, runID, email, company); err != nil {
			// Relays swallow their own errors; a non-nil error here still must
			// not block the flow.
			log.Printf("lead notification failed run=%s: %v", runID, err)
		}
	}

	return g.flags.SetUnlocked(runID)
}
