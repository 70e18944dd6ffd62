package validation

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/isotest/iso-testgen/internal/fieldgen"
	"github.com/isotest/iso-testgen/pkg/types"
)

// Validator checks values against generated validation rules and reports
// structural problems in field definitions
type Validator struct {
	// Patterns keyed by the allowedChars range string of a rule
	charsetPatterns map[string]*regexp.Regexp

	indicatorPattern *regexp.Regexp

	// Path patterns rejected for catalog paths
	pathInjectionPatterns []*regexp.Regexp
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		charsetPatterns: map[string]*regexp.Regexp{
			"0-9":       regexp.MustCompile(`^[0-9]*$`),
			"a-zA-Z0-9": regexp.MustCompile(`^[a-zA-Z0-9]*$`),
			"0-1":       regexp.MustCompile(`^[01]*$`),
			// Generated hex examples are lowercase while the rule reads
			// 0-9A-F, so either case is accepted.
			"0-9A-F": regexp.MustCompile(`^[0-9A-Fa-f]*$`),
		},

		indicatorPattern: regexp.MustCompile(`^[0-9]+$`),

		pathInjectionPatterns: []*regexp.Regexp{
			regexp.MustCompile("[;&|`$<>]"), // Shell metacharacters
			regexp.MustCompile(`\n|\r`),     // Newlines
			regexp.MustCompile(`\x00`),      // Null bytes
		},
	}
}

// CheckValue validates a value against a field's rules. Fixed rules require
// the exact length; variable-length rules require a numeric length indicator
// that matches the payload.
func (v *Validator) CheckValue(rules *types.ValidationRules, value string) error {
	if rules == nil {
		return fmt.Errorf("no validation rules")
	}

	pattern, ok := v.charsetPatterns[rules.AllowedChars]
	if !ok {
		return fmt.Errorf("unsupported allowed characters %q", rules.AllowedChars)
	}

	switch {
	case rules.ExactLength != nil:
		if len(value) != *rules.ExactLength {
			return fmt.Errorf("length %d, expected exactly %d", len(value), *rules.ExactLength)
		}
		if !pattern.MatchString(value) {
			return fmt.Errorf("contains characters outside %s", rules.AllowedChars)
		}

	case rules.LengthIndicatorSize > 0:
		width := rules.LengthIndicatorSize
		if len(value) < width {
			return fmt.Errorf("missing %d-digit length indicator", width)
		}
		indicator, payload := value[:width], value[width:]
		if !v.indicatorPattern.MatchString(indicator) {
			return fmt.Errorf("length indicator %q is not numeric", indicator)
		}
		declared, _ := strconv.Atoi(indicator)
		if declared != len(payload) {
			return fmt.Errorf("length indicator %d does not match payload length %d", declared, len(payload))
		}
		return checkPayload(rules, pattern, payload)

	default:
		return fmt.Errorf("rules define neither an exact length nor a length indicator")
	}

	return nil
}

// CheckPayload validates a variable-length value without its length
// indicator. Fixed-length rules have no indicator, so it defers to CheckValue.
func (v *Validator) CheckPayload(rules *types.ValidationRules, payload string) error {
	if rules == nil || rules.LengthIndicatorSize == 0 {
		return v.CheckValue(rules, payload)
	}

	pattern, ok := v.charsetPatterns[rules.AllowedChars]
	if !ok {
		return fmt.Errorf("unsupported allowed characters %q", rules.AllowedChars)
	}
	return checkPayload(rules, pattern, payload)
}

func checkPayload(rules *types.ValidationRules, pattern *regexp.Regexp, payload string) error {
	if len(payload) == 0 {
		return fmt.Errorf("payload cannot be empty")
	}
	if rules.MaxLength != nil && len(payload) > *rules.MaxLength {
		return fmt.Errorf("payload length %d exceeds maximum %d", len(payload), *rules.MaxLength)
	}
	if !pattern.MatchString(payload) {
		return fmt.Errorf("payload contains characters outside %s", rules.AllowedChars)
	}
	return nil
}

// CheckDefinition reports every structural problem in a field definition.
// Definitions without format or type are valid pass-through entries.
func (v *Validator) CheckDefinition(def types.FieldDefinition) error {
	if def.Format == "" || def.Type == "" {
		return nil
	}

	var errs []error

	if _, ok := fieldgen.AllowedChars(def.Type); !ok {
		errs = append(errs, fmt.Errorf("unknown type %q", def.Type))
	}

	switch def.Format {
	case types.FormatFixed, types.FormatBitmap:
		if def.Length == nil {
			errs = append(errs, fmt.Errorf("%s field requires %q", def.Format, types.AttrLength))
		} else if *def.Length < 0 {
			errs = append(errs, fmt.Errorf("%q cannot be negative", types.AttrLength))
		} else if def.Format == types.FormatBitmap && *def.Length < 8 {
			errs = append(errs, fmt.Errorf("bitmap length %d is shorter than 8", *def.Length))
		}
		if def.MaxLength != nil {
			errs = append(errs, fmt.Errorf("%s field should not set %q", def.Format, types.AttrMaxLength))
		}

	case types.FormatLLVar, types.FormatLLLVar:
		if def.MaxLength == nil {
			errs = append(errs, fmt.Errorf("%s field requires %q", def.Format, types.AttrMaxLength))
		} else {
			width := fieldgen.LengthIndicatorWidths[def.Format]
			if *def.MaxLength < 1 {
				errs = append(errs, fmt.Errorf("%q must be at least 1", types.AttrMaxLength))
			} else if len(strconv.Itoa(*def.MaxLength)) > width {
				errs = append(errs, fmt.Errorf("%q %d does not fit a %d-digit length indicator", types.AttrMaxLength, *def.MaxLength, width))
			}
		}
		if def.Length != nil {
			errs = append(errs, fmt.Errorf("%s field should not set %q", def.Format, types.AttrLength))
		}

	default:
		errs = append(errs, fmt.Errorf("unknown format %q", def.Format))
	}

	return errors.Join(errs...)
}

// ValidateFilePath validates a catalog or config path
func (v *Validator) ValidateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty")
	}

	for _, pattern := range v.pathInjectionPatterns {
		if pattern.MatchString(path) {
			return fmt.Errorf("file path contains invalid characters")
		}
	}

	if cleaned := filepath.Clean(path); cleaned == "." || strings.HasSuffix(path, string(filepath.Separator)) {
		return fmt.Errorf("file path must name a file")
	}

	return nil
}
