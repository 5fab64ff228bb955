package wizard

// StepKind groups steps by what the validator checks for them.
type StepKind string

const (
	// StepCategory gates on a selected category plus any intent/type fields.
	StepCategory StepKind = "category"
	// StepLocation requires a non-empty location string. Geocoding stays
	// best-effort and never blocks the step.
	StepLocation StepKind = "location"
	// StepDetails checks the required schema fields not claimed by any other
	// step in the plan.
	StepDetails StepKind = "details"
	// StepFeatures checks its listed fields against the schema; amenities
	// must parse to a non-empty list.
	StepFeatures StepKind = "features"
	// StepPhotos requires at least one image.
	StepPhotos StepKind = "photos"
	// StepPricing checks title, price and description.
	StepPricing StepKind = "pricing"
	// StepReview checks description and amenities before terminal actions.
	StepReview StepKind = "review"
	// StepContact validates the submitter's contact identity.
	StepContact StepKind = "contact"
)

// Step is one screen of a wizard plan. Fields lists the field names the step
// claims for validation; kinds with fixed semantics may leave it empty.
type Step struct {
	Kind   StepKind `json:"kind"`
	Title  string   `json:"title"`
	Fields []string `json:"fields,omitempty"`
}

// Plan is an ordered list of steps plus flow-level settings. The admin and
// public flows are two Plan values over the same controller.
type Plan struct {
	Name        string `json:"name"`
	Steps       []Step `json:"steps"`
	AllowDrafts bool   `json:"allowDrafts"`
	AutoApprove bool   `json:"autoApprove"`
}

// Len returns the number of steps.
func (p Plan) Len() int { return len(p.Steps) }

// Step returns the 1-based step definition.
func (p Plan) Step(n int) (Step, bool) {
	if n < 1 || n > len(p.Steps) {
		return Step{}, false
	}
	return p.Steps[n-1], true
}

// HasContact reports whether the plan ends with a contact-info step.
func (p Plan) HasContact() bool {
	return len(p.Steps) > 0 && p.Steps[len(p.Steps)-1].Kind == StepContact
}

// claimed returns the set of field names claimed by steps other than the
// 1-based step n. StepDetails validates everything required that is left over.
func (p Plan) claimed(n int) map[string]bool {
	set := make(map[string]bool)
	for i, s := range p.Steps {
		if i+1 == n {
			continue
		}
		for _, f := range s.Fields {
			set[f] = true
		}
	}
	return set
}

// PublicPlan is the seven-screen flow used by visitor submissions: intent and
// property type, location, category details, features, photos, pricing, and
// finally the submitter's contact identity.
func PublicPlan() Plan {
	return Plan{
		Name: "public",
		Steps: []Step{
			{Kind: StepCategory, Title: "Property Type", Fields: []string{"listingIntent", "propertyType"}},
			{Kind: StepLocation, Title: "Location", Fields: []string{"location"}},
			{Kind: StepDetails, Title: "Property Details"},
			{Kind: StepFeatures, Title: "Features & Amenities", Fields: []string{"furnishing", "amenities"}},
			{Kind: StepPhotos, Title: "Photos", Fields: []string{"images"}},
			{Kind: StepPricing, Title: "Pricing & Description", Fields: []string{"title", "price", "description"}},
			{Kind: StepContact, Title: "Contact Details"},
		},
	}
}

// AdminPlan is the four-screen authoring flow used from the admin dashboard.
// Drafts may be saved from any step and submissions are approved on create.
func AdminPlan() Plan {
	return Plan{
		Name: "admin",
		Steps: []Step{
			{Kind: StepCategory, Title: "Category", Fields: []string{"propertyType"}},
			{Kind: StepDetails, Title: "Basic Details"},
			{Kind: StepLocation, Title: "Location", Fields: []string{"location"}},
			{Kind: StepReview, Title: "Description & Publish", Fields: []string{"description", "amenities"}},
		},
		AllowDrafts: true,
		AutoApprove: true,
	}
}

// PlanFor maps a flow name to its plan.
func PlanFor(flow string) (Plan, bool) {
	switch flow {
	case "public":
		return PublicPlan(), true
	case "admin":
		return AdminPlan(), true
	}
	return Plan{}, false
}
