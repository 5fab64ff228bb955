package wizard

// Contact is the submitter identity attached at the final step of the public
// flow. It is independent of the listing's own fields.
type Contact struct {
	Name  string `json:"name" validate:"required,min=2"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required,min=10"`
}

// State holds one in-progress submission: the current step, the selected
// category and every collected field value. It is owned by a single wizard
// session and mutated only through its methods; it is not safe for concurrent
// writers.
type State struct {
	plan     Plan
	step     int
	category Category
	// prevCategory remembers the last selection after Retreat clears the
	// gating pointer, so re-choosing the same category keeps its values.
	prevCategory Category
	fields       map[string]interface{}
	contact      Contact
}

// NewState creates an empty form state positioned at step 1 of the plan.
func NewState(plan Plan) *State {
	return &State{
		plan:   plan,
		step:   1,
		fields: make(map[string]interface{}),
	}
}

// Plan returns the step plan the state was created with.
func (s *State) Plan() Plan { return s.plan }

// Step returns the current 1-based step index.
func (s *State) Step() int { return s.step }

// Category returns the selected category, or "" before selection.
func (s *State) Category() Category { return s.category }

// Contact returns the submitter contact identity.
func (s *State) Contact() Contact { return s.contact }

// Fields returns a copy of the collected field values.
func (s *State) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(s.fields))
	for k, v := range s.fields {
		out[k] = v
	}
	return out
}

// Field returns a single collected value.
func (s *State) Field(name string) (interface{}, bool) {
	v, ok := s.fields[name]
	return v, ok
}

// SetCategory selects the listing category. The field bag is rebuilt from the
// new category's schema: only values for fields present in both the previous
// and the new schema carry over, so a switch never leaves stale
// category-specific values behind.
func (s *State) SetCategory(c Category) error {
	newSchema, err := SchemaFor(c)
	if err != nil {
		return err
	}

	from := s.category
	if from == "" {
		from = s.prevCategory
	}

	carried := make(map[string]interface{})
	if from == "" {
		// Nothing selected before: only common fields can have values.
		for k, v := range s.fields {
			if newSchema.Has(k) {
				carried[k] = v
			}
		}
	} else {
		oldSchema, _ := SchemaFor(from)
		for k, v := range s.fields {
			if newSchema.Has(k) && oldSchema.Has(k) {
				carried[k] = v
			}
		}
	}

	s.category = c
	s.prevCategory = c
	s.fields = carried
	return nil
}

// ClearCategory drops the gating category pointer, forcing re-selection.
// Collected values stay in place; SetCategory decides what survives.
func (s *State) ClearCategory() {
	if s.category != "" {
		s.prevCategory = s.category
	}
	s.category = ""
}

// PatchFields shallow-merges the partial into the field bag: new keys are
// added, existing keys overwritten, absent keys untouched.
func (s *State) PatchFields(partial map[string]interface{}) {
	for k, v := range partial {
		s.fields[k] = v
	}
}

// SetContact records the submitter contact identity.
func (s *State) SetContact(c Contact) { s.contact = c }

// GoToStep moves to step n, clamped to [1, plan length].
func (s *State) GoToStep(n int) {
	if n < 1 {
		n = 1
	}
	if max := s.plan.Len(); n > max {
		n = max
	}
	s.step = n
}

// NextStep advances one step, clamped at the last step. It performs no
// validation; gating is the controller's job.
func (s *State) NextStep() { s.GoToStep(s.step + 1) }

// PrevStep retreats one step; retreating from step 1 is a no-op.
func (s *State) PrevStep() { s.GoToStep(s.step - 1) }

// Reset clears everything back to an empty step-1 state.
func (s *State) Reset() {
	s.step = 1
	s.category = ""
	s.prevCategory = ""
	s.fields = make(map[string]interface{})
	s.contact = Contact{}
}

// Snapshot is the serializable form of a State, used for session persistence
// and draft saves.
type Snapshot struct {
	Flow         string                 `json:"flow"`
	Step         int                    `json:"step"`
	Category     Category               `json:"category,omitempty"`
	PrevCategory Category               `json:"prevCategory,omitempty"`
	Fields       map[string]interface{} `json:"fields"`
	Contact      Contact                `json:"contact"`
}

// Snapshot captures the current state.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Flow:         s.plan.Name,
		Step:         s.step,
		Category:     s.category,
		PrevCategory: s.prevCategory,
		Fields:       s.Fields(),
		Contact:      s.contact,
	}
}

// Restore rebuilds a State from a snapshot. Out-of-range steps are clamped
// and unknown categories dropped, so a stale snapshot can always be resumed.
func Restore(plan Plan, snap Snapshot) *State {
	s := NewState(plan)
	if snap.Fields != nil {
		s.fields = snap.Fields
	}
	if snap.Category.IsValid() {
		s.category = snap.Category
	}
	if snap.PrevCategory.IsValid() {
		s.prevCategory = snap.PrevCategory
	}
	s.contact = snap.Contact
	s.GoToStep(snap.Step)
	return s
}
