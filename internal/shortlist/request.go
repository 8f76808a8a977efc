package shortlist

import (
	"fmt"
	"unicode/utf8"
)

const (
	MinIndicationChars = 50
	MaxIndicationChars = 6000
)

// InvalidRequestError carries the first violated constraint of a request as a
// single user-facing message.
type InvalidRequestError struct {
	Field   string
	Message string
}

func (e *InvalidRequestError) Error() string { return e.Message }

func invalid(field, msg string) *InvalidRequestError {
	return &InvalidRequestError{Field: field, Message: msg}
}

// Validate checks that the request is submit-ready. It stops at the first
// violated constraint; callers surface exactly that message. Intermediate
// wizard steps never call this.
func (r Request) Validate() error {
	if r.TherapyArea == "" {
		return invalid("therapy_area", "Please select a therapy area.")
	}
	if !validArea(r.TherapyArea) {
		return invalid("therapy_area", fmt.Sprintf("Unknown therapy area %q.", r.TherapyArea))
	}
	if n := utf8.RuneCountInString(r.IndicationText); n < MinIndicationChars {
		return invalid("indication_text", fmt.Sprintf("The indication description needs at least %d characters.", MinIndicationChars))
	} else if n > MaxIndicationChars {
		return invalid("indication_text", fmt.Sprintf("The indication description must not exceed %d characters.", MaxIndicationChars))
	}
	if r.Setting == "" {
		return invalid("setting", "Please select a care setting.")
	}
	if !validSetting(r.Setting) {
		return invalid("setting", fmt.Sprintf("Unknown care setting %q.", r.Setting))
	}
	if r.Role == "" {
		return invalid("role", "Please select the intended therapy role.")
	}
	if !validRole(r.Role) {
		return invalid("role", fmt.Sprintf("Unknown therapy role %q.", r.Role))
	}
	if r.Line != "" && !validLine(r.Line) {
		return invalid("line", fmt.Sprintf("Unknown therapy line %q.", r.Line))
	}
	if r.ComparatorType != "" && !validComparatorType(r.ComparatorType) {
		return invalid("comparator_type", fmt.Sprintf("Unknown comparator type %q.", r.ComparatorType))
	}
	return nil
}

// Apply merges a field patch into the request. Unknown fields are ignored so
// newer UI builds can send fields an older server does not know yet.
func (r *Request) Apply(patch map[string]string) {
	for field, value := range patch {
		switch field {
		case "therapy_area":
			r.TherapyArea = TherapyArea(value)
		case "project_name":
			r.ProjectName = value
		case "indication_text":
			r.IndicationText = value
		case "population_text":
			r.PopulationText = value
		case "setting":
			r.Setting = Setting(value)
		case "role":
			r.Role = Role(value)
		case "line":
			r.Line = Line(value)
		case "comparator_type":
			r.ComparatorType = ComparatorType(value)
		case "comparator_text":
			r.ComparatorText = value
		}
	}
}

func validArea(v TherapyArea) bool {
	for _, a := range TherapyAreas {
		if a == v {
			return true
		}
	}
	return false
}

func validSetting(v Setting) bool {
	for _, s := range Settings {
		if s == v {
			return true
		}
	}
	return false
}

func validRole(v Role) bool {
	for _, r := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

func validLine(v Line) bool {
	for _, l := range Lines {
		if l == v {
			return true
		}
	}
	return false
}

func validComparatorType(v ComparatorType) bool {
	for _, c := range ComparatorTypes {
		if c == v {
			return true
		}
	}
	return false
}
