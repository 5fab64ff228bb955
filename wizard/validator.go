package wizard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of validating one step. Validation never fails hard:
// errors are keyed by field name and rendered inline by the caller.
type Result struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors,omitempty"`
}

func newResult() Result {
	return Result{Valid: true, Errors: make(map[string]string)}
}

func (r *Result) addError(field, msg string) {
	r.Valid = false
	r.Errors[field] = msg
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateStep checks whether the given 1-based step of the plan is complete
// for the collected values. Steps past the plan or before a category exists
// (other than step 1 itself) fail on the category key.
func ValidateStep(plan Plan, step int, category Category, fields map[string]interface{}, contact Contact) Result {
	res := newResult()

	def, ok := plan.Step(step)
	if !ok {
		res.addError("step", fmt.Sprintf("step %d is outside this flow", step))
		return res
	}

	if def.Kind == StepCategory {
		if category == "" {
			res.addError("category", "select a listing category to continue")
		}
		for _, name := range def.Fields {
			if isEmpty(fields[name]) {
				res.addError(name, "this field is required")
			}
		}
		return res
	}

	if def.Kind == StepContact {
		validateContact(contact, &res)
		return res
	}

	if category == "" {
		res.addError("category", "select a listing category to continue")
		return res
	}
	schema, err := SchemaFor(category)
	if err != nil {
		res.addError("category", "select a listing category to continue")
		return res
	}

	switch def.Kind {
	case StepLocation:
		// A free-text location is enough; geocoding stays advisory.
		if isEmpty(fields["location"]) {
			res.addError("location", "location is required")
		}
	case StepDetails:
		claimed := plan.claimed(step)
		for _, f := range schema.Fields {
			if !f.Required || claimed[f.Name] {
				continue
			}
			checkField(f, fields[f.Name], &res)
		}
	case StepFeatures:
		for _, name := range def.Fields {
			f, inSchema := schema.Field(name)
			if !inSchema {
				continue
			}
			if name == "amenities" {
				if len(toList(fields[name])) == 0 {
					res.addError(name, "add at least one amenity")
				}
				continue
			}
			if f.Required {
				checkField(f, fields[name], &res)
			} else if !isEmpty(fields[name]) {
				checkField(f, fields[name], &res)
			}
		}
	case StepPhotos:
		if len(toList(fields["images"])) == 0 {
			res.addError("images", "upload at least one photo")
		}
	case StepPricing:
		for _, name := range []string{"title", "price", "description"} {
			if isEmpty(fields[name]) {
				res.addError(name, "this field is required")
			}
		}
	case StepReview:
		if isEmpty(fields["description"]) {
			res.addError("description", "description is required")
		}
		if len(toList(fields["amenities"])) == 0 {
			res.addError("amenities", "add at least one amenity")
		}
	}

	return res
}

// ValidateAll checks every step of the plan against the collected values and
// merges the field errors. Submission gates on this rather than the terminal
// step alone, so a session resumed from a partial draft cannot skip past the
// steps it never completed.
func ValidateAll(plan Plan, category Category, fields map[string]interface{}, contact Contact) Result {
	res := newResult()
	for step := 1; step <= plan.Len(); step++ {
		stepRes := ValidateStep(plan, step, category, fields, contact)
		for field, msg := range stepRes.Errors {
			res.addError(field, msg)
		}
	}
	return res
}

func validateContact(c Contact, res *Result) {
	if len(strings.TrimSpace(c.Name)) < 2 {
		res.addError("submitterName", "name must be at least 2 characters")
	}
	if !emailPattern.MatchString(strings.TrimSpace(c.Email)) {
		res.addError("submitterEmail", "enter a valid email address")
	}
	if len(strings.TrimSpace(c.Phone)) < 10 {
		res.addError("submitterPhone", "phone number must be at least 10 digits")
	}
}

// checkField validates a single value against its descriptor: presence for
// required fields, then shape by kind.
func checkField(f Field, v interface{}, res *Result) {
	if isEmpty(v) {
		if f.Required {
			res.addError(f.Name, "this field is required")
		}
		return
	}

	switch f.Kind {
	case KindNumber:
		if _, ok := toNumber(v); !ok {
			res.addError(f.Name, "must be a number")
		}
	case KindDate:
		if _, ok := toDate(v); !ok {
			res.addError(f.Name, "must be a date (YYYY-MM-DD)")
		}
	case KindEnum:
		sv := strings.TrimSpace(fmt.Sprint(v))
		for _, allowed := range f.EnumValues {
			if strings.EqualFold(sv, allowed) {
				return
			}
		}
		res.addError(f.Name, "must be one of: "+strings.Join(f.EnumValues, ", "))
	case KindList:
		if len(toList(v)) == 0 {
			res.addError(f.Name, "add at least one value")
		}
	}
}

// isEmpty treats nil, blank strings and empty lists as missing.
func isEmpty(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []interface{}:
		return len(t) == 0
	}
	return false
}

// toNumber accepts JSON numbers and numeric strings.
func toNumber(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return n, err == nil
	}
	return 0, false
}

func toDate(v interface{}) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// toList normalizes list-shaped values: string slices, JSON arrays, or a
// comma-separated string.
func toList(v interface{}) []string {
	var raw []string
	switch t := v.(type) {
	case []string:
		raw = t
	case []interface{}:
		for _, item := range t {
			raw = append(raw, fmt.Sprint(item))
		}
	case string:
		raw = strings.Split(t, ",")
	default:
		return nil
	}

	var out []string
	for _, item := range raw {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
