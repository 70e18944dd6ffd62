package fieldgen

import (
	"fmt"

	"github.com/isotest/iso-testgen/pkg/types"
)

// Options controls optional generation behavior
type Options struct {
	// LegacyIndicatorCases adds invalid_length_indicator and
	// missing_length_indicator to variable-length fields
	LegacyIndicatorCases bool
}

// Result is the generated data for one field
type Result struct {
	TestCases       *types.TestCases
	ValidationRules *types.ValidationRules
	ValidExample    *string
	ValidExampleRaw *string
}

// Synthesizer generates invalid test cases, validation rules and a valid
// example for field definitions
type Synthesizer struct {
	src     Source
	options Options
}

// NewSynthesizer creates a synthesizer drawing from src
func NewSynthesizer(src Source, options *Options) *Synthesizer {
	if options == nil {
		options = &Options{}
	}
	return &Synthesizer{
		src:     src,
		options: *options,
	}
}

// Synthesize produces the generated data for def. It returns a nil Result
// and nil error for definitions without a format or type; those are passed
// through unchanged.
func (s *Synthesizer) Synthesize(def types.FieldDefinition) (*Result, error) {
	if def.Format == "" || def.Type == "" {
		return nil, nil
	}
	if err := checkDefinition(def); err != nil {
		return nil, err
	}

	shape := Classify(def)
	cs := charsets[def.Type]

	result := &Result{TestCases: types.NewTestCases()}

	s.addTypeCases(result.TestCases, cs, def)
	if shape.DateTime && def.Type == types.TypeNumeric {
		if c, ok := dateTimeCases[*def.Length]; ok {
			result.TestCases.Set(c.key, types.TestCase{Value: c.value, Description: c.description})
		}
	}

	switch def.Format {
	case types.FormatFixed:
		s.addFixedLengthCases(result.TestCases, def)
		result.ValidationRules = fixedRules(def, cs, shape)
		result.ValidExample = s.fixedExample(def, cs, shape)

	case types.FormatLLVar, types.FormatLLLVar:
		s.addVariableLengthCases(result.TestCases, def, shape)
		raw := randomString(s.src, payloadAlphabet(def.Type), 1+s.src.IntN(*def.MaxLength))
		formatted := types.ZeroPad(len(raw), shape.PrefixWidth) + raw
		result.ValidationRules = variableRules(def, cs, shape)
		result.ValidationRules.FormatExample = &types.FormatExample{
			Raw:       raw,
			Formatted: formatted,
			Explanation: fmt.Sprintf("Length indicator '%s' followed by raw value '%s'",
				formatted[:len(formatted)-len(raw)], raw),
		}
		result.ValidExample = &formatted
		result.ValidExampleRaw = &raw

	case types.FormatBitmap:
		s.addBitmapCases(result.TestCases, def)
	}

	return result, nil
}

// checkDefinition rejects definitions whose length attributes cannot drive
// generation for their format
func checkDefinition(def types.FieldDefinition) error {
	if _, ok := charsets[def.Type]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, def.Type)
	}

	switch def.Format {
	case types.FormatFixed, types.FormatBitmap:
		if def.Length == nil {
			return fmt.Errorf("%w: %s field requires %q", ErrMissingLength, def.Format, types.AttrLength)
		}
		if *def.Length < 0 {
			return fmt.Errorf("%w: %q is %d", ErrInvalidLength, types.AttrLength, *def.Length)
		}
	case types.FormatLLVar, types.FormatLLLVar:
		if def.MaxLength == nil {
			return fmt.Errorf("%w: %s field requires %q", ErrMissingLength, def.Format, types.AttrMaxLength)
		}
		if *def.MaxLength < 1 {
			return fmt.Errorf("%w: %q is %d", ErrInvalidLength, types.AttrMaxLength, *def.MaxLength)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, def.Format)
	}
	return nil
}

// addTypeCases emits the type violation cases, sized by length or, for
// variable-length fields, max_length
func (s *Synthesizer) addTypeCases(tc *types.TestCases, cs charset, def types.FieldDefinition) {
	size := 0
	if def.Length != nil {
		size = *def.Length
	} else if def.MaxLength != nil {
		size = *def.MaxLength
	}
	for _, c := range cs.invalid {
		tc.Set(c.key, types.TestCase{
			Value:       randomString(s.src, c.alphabet, size),
			Description: c.description,
		})
	}
}

func (s *Synthesizer) addFixedLengthCases(tc *types.TestCases, def types.FieldDefinition) {
	length := *def.Length
	alphabet := payloadAlphabet(def.Type)
	tc.Set(CaseInvalidLengthShort, types.TestCase{
		Value:       randomString(s.src, alphabet, length-1),
		Description: fmt.Sprintf("Length shorter than required %d characters", length),
	})
	tc.Set(CaseInvalidLengthLong, types.TestCase{
		Value:       randomString(s.src, alphabet, length+1),
		Description: fmt.Sprintf("Length longer than required %d characters", length),
	})
}

func (s *Synthesizer) addVariableLengthCases(tc *types.TestCases, def types.FieldDefinition, shape Shape) {
	maxLength := *def.MaxLength
	alphabet := payloadAlphabet(def.Type)

	tc.Set(CaseInvalidLengthExceedMax, types.TestCase{
		Value:       randomString(s.src, alphabet, maxLength+1),
		Description: fmt.Sprintf("Exceeds maximum length of %d characters", maxLength),
	})
	tc.Set(CaseInvalidEmpty, types.TestCase{
		Value:       "",
		Description: "Empty value",
	})

	if !s.options.LegacyIndicatorCases {
		return
	}
	payload := randomString(s.src, alphabet, maxLength)
	tc.Set(CaseInvalidLengthIndicator, types.TestCase{
		Value:       types.ZeroPad(maxLength+1, shape.PrefixWidth) + payload,
		Description: "Length indicator doesn't match actual data length",
	})
	tc.Set(CaseMissingLengthIndicator, types.TestCase{
		Value:       payload,
		Description: "Missing length indicator",
	})
}

func (s *Synthesizer) addBitmapCases(tc *types.TestCases, def types.FieldDefinition) {
	length := *def.Length
	tc.Set(CaseInvalidBitmapFormat, types.TestCase{
		Value:       randomString(s.src, LettersDigits, length),
		Description: "Invalid bitmap format",
	})
	tc.Set(CaseInvalidBitmapLength, types.TestCase{
		Value:       randomString(s.src, BinaryDigits, length-bitmapShortfall),
		Description: "Invalid bitmap length",
	})
}

func fixedRules(def types.FieldDefinition, cs charset, shape Shape) *types.ValidationRules {
	rules := &types.ValidationRules{
		ExactLength:  types.IntPtr(*def.Length),
		AllowedChars: cs.allowedChars,
		Description:  fmt.Sprintf("Must be exactly %d characters long with %s characters", *def.Length, def.Type),
	}
	if shape.DateTime {
		rules.IsDateTime = true
		rules.Format, _ = DateTimeFormat(*def.Length)
	}
	return rules
}

func variableRules(def types.FieldDefinition, cs charset, shape Shape) *types.ValidationRules {
	return &types.ValidationRules{
		MaxLength:           types.IntPtr(*def.MaxLength),
		LengthIndicatorSize: shape.PrefixWidth,
		AllowedChars:        cs.allowedChars,
		Description:         fmt.Sprintf("Variable length up to %d characters with %s length indicator", *def.MaxLength, def.Format),
	}
}

// fixedExample returns the valid example of a fixed field. Numeric date/time
// fields use the supplied sample verbatim, which may be absent.
func (s *Synthesizer) fixedExample(def types.FieldDefinition, cs charset, shape Shape) *string {
	if shape.DateTime && def.Type == types.TypeNumeric {
		if def.SampleData == nil {
			return nil
		}
		sample := *def.SampleData
		return &sample
	}
	example := randomString(s.src, cs.valid, *def.Length)
	return &example
}
