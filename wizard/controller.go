package wizard

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrSubmitInFlight is returned while a previous Submit call has not
	// settled. Exactly one outstanding submission is allowed.
	ErrSubmitInFlight = errors.New("a submission is already in progress")
	// ErrNotFinalStep is returned when Submit is called before the last step.
	ErrNotFinalStep = errors.New("submission is only allowed from the final step")
	// ErrDraftsNotAllowed is returned for flows without draft support.
	ErrDraftsNotAllowed = errors.New("drafts are not enabled for this flow")
)

// Sink receives completed submissions and draft snapshots. The HTTP
// Dispatcher is the remote implementation; server-side sessions use a
// repository-backed one.
type Sink interface {
	Submit(ctx context.Context, sub Submission) (trackingID string, err error)
	SaveDraft(ctx context.Context, snap Snapshot) error
}

// Controller orchestrates one wizard session over a step plan: it gates
// forward navigation on step validation and hands the assembled submission to
// the sink on the final step. It owns its State exclusively.
type Controller struct {
	plan  Plan
	state *State
	sink  Sink
	now   func() time.Time

	mu         sync.Mutex
	submitting bool
}

// NewController starts a fresh session for the plan.
func NewController(plan Plan, sink Sink) *Controller {
	return &Controller{plan: plan, state: NewState(plan), sink: sink, now: time.Now}
}

// ResumeController continues a session from a persisted snapshot.
func ResumeController(plan Plan, snap Snapshot, sink Sink) *Controller {
	return &Controller{plan: plan, state: Restore(plan, snap), sink: sink, now: time.Now}
}

// State exposes the underlying form state for readers.
func (c *Controller) State() *State { return c.state }

// SelectCategory records the category choice at step 1. Flows that
// auto-approve (the admin dashboard) jump straight to step 2 once the
// category step is satisfied; the public flow waits for an explicit Advance.
func (c *Controller) SelectCategory(cat Category) (Result, error) {
	if err := c.state.SetCategory(cat); err != nil {
		return Result{}, err
	}

	res := ValidateStep(c.plan, c.state.Step(), c.state.Category(), c.state.Fields(), c.state.Contact())
	if c.plan.AutoApprove && c.state.Step() == 1 && res.Valid {
		c.state.NextStep()
	}
	return res, nil
}

// Advance validates the current step with the pending edits overlaid. If the
// step is complete the edits are merged and the state moves forward one step;
// otherwise the state is untouched and the field errors are returned.
func (c *Controller) Advance(patch map[string]interface{}) Result {
	merged := c.state.Fields()
	for k, v := range patch {
		merged[k] = v
	}

	res := ValidateStep(c.plan, c.state.Step(), c.state.Category(), merged, c.state.Contact())
	if !res.Valid {
		return res
	}

	c.state.PatchFields(patch)
	c.state.NextStep()
	return res
}

// Retreat moves back one step, never below step 1. Stepping back onto the
// category screen clears the selection so it must be re-confirmed; the
// collected values stay until a different category is chosen.
func (c *Controller) Retreat() {
	if c.state.Step() <= 1 {
		return
	}
	c.state.PrevStep()
	if c.state.Step() == 1 {
		c.state.ClearCategory()
	}
}

// Submit finishes the wizard from the final step: it re-validates every step
// of the plan, builds the submission and dispatches it. Full validation here
// means a session resumed from a partial draft cannot submit until its earlier
// steps are complete. On success the state is reset; on failure it is left
// untouched so the user can retry without re-entering anything.
func (c *Controller) Submit(ctx context.Context) (string, Result, error) {
	if c.state.Step() != c.plan.Len() {
		return "", Result{}, ErrNotFinalStep
	}

	res := ValidateAll(c.plan, c.state.Category(), c.state.Fields(), c.state.Contact())
	if !res.Valid {
		return "", res, nil
	}

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return "", res, ErrSubmitInFlight
	}
	c.submitting = true
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	sub := BuildSubmission(c.state, c.now())
	trackingID, err := c.sink.Submit(ctx, sub)
	if err != nil {
		return "", res, err
	}

	c.state.Reset()
	return trackingID, res, nil
}

// SaveDraft snapshots the current state to the sink without any validation.
// Callable from any step; a failure is reported but never blocks editing.
func (c *Controller) SaveDraft(ctx context.Context) error {
	if !c.plan.AllowDrafts {
		return ErrDraftsNotAllowed
	}
	return c.sink.SaveDraft(ctx, c.state.Snapshot())
}
