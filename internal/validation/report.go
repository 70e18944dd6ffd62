package validation

import (
	"github.com/isotest/iso-testgen/internal/fieldgen"
	"github.com/isotest/iso-testgen/pkg/types"
)

// uncheckedCases cannot be rejected by a rule check. The date/time cases are
// well-formed values that are only invalid on the calendar or clock, and
// missing_length_indicator is a valid payload whose defect is the absent
// prefix.
var uncheckedCases = map[string]bool{
	fieldgen.CaseInvalidDate:            true,
	fieldgen.CaseInvalidTime:            true,
	fieldgen.CaseInvalidDateTime:        true,
	fieldgen.CaseMissingLengthIndicator: true,
}

// prefixedCases carry their own length indicator. Every other case of a
// variable-length field is a raw payload.
var prefixedCases = map[string]bool{
	fieldgen.CaseInvalidLengthIndicator: true,
}

// Finding is one unexpected verification result
type Finding struct {
	Field string `json:"field"`
	Case  string `json:"case"`
	Value string `json:"value"`
	Error string `json:"error,omitempty"`
}

// Report summarizes verification of an extended catalog
type Report struct {
	Fields  int `json:"fields"`
	Checked int `json:"checked"`
	// ValidFailures are valid examples the rules reject
	ValidFailures []Finding `json:"validFailures,omitempty"`
	// AcceptedInvalid are invalid test cases the rules accept
	AcceptedInvalid []Finding `json:"acceptedInvalid,omitempty"`
	// Skipped counts fields without validation rules
	Skipped int `json:"skipped"`
}

// OK reports whether every valid example passed its rules
func (r *Report) OK() bool {
	return len(r.ValidFailures) == 0
}

// VerifyCatalog checks every extended field: the valid example must satisfy
// the field's rules and every checkable test case must violate them. Raw
// payload cases of variable-length fields are held to CheckPayload.
func (v *Validator) VerifyCatalog(catalog *types.Catalog) *Report {
	report := &Report{Fields: catalog.Len()}

	for _, key := range catalog.Keys() {
		field, _ := catalog.Get(key)
		if field.ValidationRules == nil {
			report.Skipped++
			continue
		}

		if field.ValidExample != nil {
			report.Checked++
			if err := v.CheckValue(field.ValidationRules, *field.ValidExample); err != nil {
				report.ValidFailures = append(report.ValidFailures, Finding{
					Field: key,
					Case:  types.AttrValidExample,
					Value: *field.ValidExample,
					Error: err.Error(),
				})
			}
		}

		if field.TestCases == nil {
			continue
		}
		for _, name := range field.TestCases.Keys() {
			if uncheckedCases[name] {
				continue
			}
			tc, _ := field.TestCases.Get(name)
			report.Checked++
			if err := v.checkCase(field.ValidationRules, name, tc.Value); err == nil {
				report.AcceptedInvalid = append(report.AcceptedInvalid, Finding{
					Field: key,
					Case:  name,
					Value: tc.Value,
				})
			}
		}
	}

	return report
}

func (v *Validator) checkCase(rules *types.ValidationRules, name, value string) error {
	if rules.LengthIndicatorSize > 0 && !prefixedCases[name] {
		return v.CheckPayload(rules, value)
	}
	return v.CheckValue(rules, value)
}
