package shortlist

import (
	"strings"
	"testing"
)

func validRequest() Request {
	return Request{
		TherapyArea:    AreaOnkologie,
		IndicationText: strings.Repeat("Lokal fortgeschrittenes NSCLC nach Platin-Versagen. ", 3),
		Setting:        SettingAmbulant,
		Role:           RoleAddOn,
	}
}

func TestValidateAcceptsCompleteRequest(t *testing.T) {
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestValidateSurfacesFirstViolationOnly(t *testing.T) {
	// Everything is wrong; the therapy area violation must win.
	req := Request{IndicationText: "too short"}
	err := req.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	ierr, ok := err.(*InvalidRequestError)
	if !ok {
		t.Fatalf("expected *InvalidRequestError, got %T", err)
	}
	if ierr.Field != "therapy_area" {
		t.Fatalf("expected first violation on therapy_area, got %s", ierr.Field)
	}
}

func TestValidateIndicationLengthBounds(t *testing.T) {
	req := validRequest()

	req.IndicationText = strings.Repeat("x", MinIndicationChars-1)
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for indication below minimum length")
	}

	req.IndicationText = strings.Repeat("x", MinIndicationChars)
	if err := req.Validate(); err != nil {
		t.Fatalf("expected %d chars to be accepted, got %v", MinIndicationChars, err)
	}

	req.IndicationText = strings.Repeat("x", MaxIndicationChars+1)
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for indication above maximum length")
	}

	// Length is counted in runes, not bytes.
	req.IndicationText = strings.Repeat("ä", MinIndicationChars)
	if err := req.Validate(); err != nil {
		t.Fatalf("expected rune counting, got %v", err)
	}
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	req := validRequest()
	req.Setting = "teilstationär"
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for unknown setting")
	}

	req = validRequest()
	req.Line = "5L"
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for unknown line")
	}

	req = validRequest()
	req.ComparatorType = "historisch"
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for unknown comparator type")
	}
}

func TestValidateOptionalFieldsMayBeEmpty(t *testing.T) {
	req := validRequest()
	req.ProjectName = ""
	req.PopulationText = ""
	req.Line = ""
	req.ComparatorType = ""
	req.ComparatorText = ""
	if err := req.Validate(); err != nil {
		t.Fatalf("optional fields must not be required: %v", err)
	}
}

func TestApplyMergesKnownFieldsAndIgnoresUnknown(t *testing.T) {
	var req Request
	req.Apply(map[string]string{
		"therapy_area":    "Onkologie",
		"indication_text": "some text",
		"future_field":    "ignored",
	})
	if req.TherapyArea != AreaOnkologie {
		t.Fatalf("therapy_area not applied: %q", req.TherapyArea)
	}
	if req.IndicationText != "some text" {
		t.Fatalf("indication_text not applied: %q", req.IndicationText)
	}

	// A later patch overrides, untouched fields survive.
	req.Apply(map[string]string{"indication_text": "revised"})
	if req.IndicationText != "revised" || req.TherapyArea != AreaOnkologie {
		t.Fatalf("patch merge broken: %+v", req)
	}
}
