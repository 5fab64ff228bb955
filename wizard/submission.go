package wizard

import "time"

// Submission is the finalized payload handed to the persistence boundary when
// the wizard completes. Its flattened record shape is what the downstream
// review pipeline consumes.
type Submission struct {
	Flow           string                 `json:"flow"`
	Category       Category               `json:"category"`
	Fields         map[string]interface{} `json:"fields"`
	Submitter      *Contact               `json:"submitter,omitempty"`
	ApprovalStatus string                 `json:"approvalStatus"`
	SubmittedAt    time.Time              `json:"submittedAt"`
}

// BuildSubmission derives a Submission from the completed state. Admin-flow
// submissions are approved on create; everything else starts pending review.
func BuildSubmission(state *State, now time.Time) Submission {
	plan := state.Plan()

	status := "pending"
	if plan.AutoApprove {
		status = "approved"
	}

	sub := Submission{
		Flow:           plan.Name,
		Category:       state.Category(),
		Fields:         state.Fields(),
		ApprovalStatus: status,
		SubmittedAt:    now.UTC(),
	}
	if plan.HasContact() {
		contact := state.Contact()
		sub.Submitter = &contact
	}
	return sub
}

// Listing flattens the submission onto a single record: every collected field
// at the top level plus category, approval_status and submitted_at.
func (s Submission) Listing() map[string]interface{} {
	rec := make(map[string]interface{}, len(s.Fields)+3)
	for k, v := range s.Fields {
		rec[k] = v
	}
	rec["category"] = string(s.Category)
	rec["approval_status"] = s.ApprovalStatus
	rec["submitted_at"] = s.SubmittedAt.Format(time.RFC3339)
	return rec
}
