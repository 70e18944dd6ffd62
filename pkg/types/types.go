package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Field formats
const (
	FormatFixed  = "fixed"
	FormatLLVar  = "llvar"
	FormatLLLVar = "lllvar"
	FormatBitmap = "bitmap"
)

// Field data types
const (
	TypeNumeric      = "numeric"
	TypeAlphanumeric = "alphanumeric"
	TypeBinary       = "binary"
	TypeHex          = "hex"
)

// Attribute keys of a field definition. Aliases come from older catalogs.
const (
	AttrFormat          = "format"
	AttrType            = "type"
	AttrLength          = "length"
	AttrMaxLength       = "max_length"
	AttrMaxLengthLegacy = "maxLength"
	AttrName            = "name"
	AttrSampleData      = "SampleData"
	AttrSampleDataAlias = "sample_data"
)

// Attribute keys added to an extended field definition
const (
	AttrTestCases       = "testCases"
	AttrValidationRules = "validationRules"
	AttrValidExample    = "validExample"
	AttrValidExampleRaw = "validExampleRaw"
)

// FieldDefinition is the typed view of one catalog entry. Every attribute is
// optional; unset numeric attributes are nil.
type FieldDefinition struct {
	Format     string
	Type       string
	Length     *int
	MaxLength  *int
	Name       string
	SampleData *string
}

// TestCase is one generated invalid input
type TestCase struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// FormatExample shows how a variable-length value is framed
type FormatExample struct {
	Raw         string `json:"raw"`
	Formatted   string `json:"formatted"`
	Explanation string `json:"explanation"`
}

// ValidationRules describes the format/type contract of a field
type ValidationRules struct {
	ExactLength         *int           `json:"exactLength,omitempty"`
	MaxLength           *int           `json:"maxLength,omitempty"`
	LengthIndicatorSize int            `json:"lengthIndicatorSize,omitempty"`
	AllowedChars        string         `json:"allowedChars"`
	Description         string         `json:"description"`
	IsDateTime          bool           `json:"isDateTime,omitempty"`
	Format              string         `json:"format,omitempty"`
	FormatExample       *FormatExample `json:"formatExample,omitempty"`
}

// Field is a catalog entry: the original attributes plus, once extended, the
// generated test data.
type Field struct {
	FieldDefinition

	TestCases       *TestCases
	ValidationRules *ValidationRules
	ValidExample    *string
	ValidExampleRaw *string

	attrs *Object
}

// NewField builds a field from a typed definition
func NewField(def FieldDefinition) *Field {
	attrs := NewObject()
	if def.Format != "" {
		_ = attrs.SetValue(AttrFormat, def.Format)
	}
	if def.Type != "" {
		_ = attrs.SetValue(AttrType, def.Type)
	}
	if def.Length != nil {
		_ = attrs.SetValue(AttrLength, *def.Length)
	}
	if def.MaxLength != nil {
		_ = attrs.SetValue(AttrMaxLength, *def.MaxLength)
	}
	if def.Name != "" {
		_ = attrs.SetValue(AttrName, def.Name)
	}
	if def.SampleData != nil {
		_ = attrs.SetValue(AttrSampleData, *def.SampleData)
	}
	return &Field{FieldDefinition: def, attrs: attrs}
}

// Attributes returns the original attribute keys in input order
func (f *Field) Attributes() []string {
	if f.attrs == nil {
		return nil
	}
	return f.attrs.Keys()
}

// Attribute returns the raw JSON of an original attribute
func (f *Field) Attribute(key string) (json.RawMessage, bool) {
	if f.attrs == nil {
		return nil, false
	}
	return f.attrs.Get(key)
}

// IsExtended reports whether any generated data is attached
func (f *Field) IsExtended() bool {
	return f.TestCases != nil || f.ValidationRules != nil || f.ValidExample != nil || f.ValidExampleRaw != nil
}

// Copy returns a shallow copy of the field. Generated data is shared, so
// callers replace it rather than modify it.
func (f *Field) Copy() *Field {
	c := &Field{
		FieldDefinition: f.FieldDefinition,
		TestCases:       f.TestCases,
		ValidationRules: f.ValidationRules,
		ValidExample:    f.ValidExample,
		ValidExampleRaw: f.ValidExampleRaw,
	}
	if f.attrs != nil {
		c.attrs = f.attrs.Clone()
	} else {
		c.attrs = NewObject()
	}
	return c
}

// UnmarshalJSON reads a field definition, recognizing the legacy aliases and
// lifting any previously generated data into typed fields.
func (f *Field) UnmarshalJSON(data []byte) error {
	attrs := NewObject()
	if err := attrs.UnmarshalJSON(data); err != nil {
		return err
	}

	var def FieldDefinition
	var err error

	if def.Format, err = stringAttr(attrs, AttrFormat); err != nil {
		return err
	}
	if def.Type, err = stringAttr(attrs, AttrType); err != nil {
		return err
	}
	if def.Name, err = stringAttr(attrs, AttrName); err != nil {
		return err
	}
	if def.Length, err = intAttr(attrs, AttrLength); err != nil {
		return err
	}
	if def.MaxLength, err = intAttr(attrs, AttrMaxLength); err != nil {
		return err
	}
	if def.MaxLength == nil {
		if def.MaxLength, err = intAttr(attrs, AttrMaxLengthLegacy); err != nil {
			return err
		}
	}
	if def.SampleData, err = sampleAttr(attrs, AttrSampleData); err != nil {
		return err
	}
	if def.SampleData == nil {
		if def.SampleData, err = sampleAttr(attrs, AttrSampleDataAlias); err != nil {
			return err
		}
	}

	*f = Field{FieldDefinition: def}

	if raw, ok := attrs.Get(AttrTestCases); ok {
		f.TestCases = NewTestCases()
		if err := json.Unmarshal(raw, f.TestCases); err != nil {
			return fmt.Errorf("attribute %q: %w", AttrTestCases, err)
		}
		attrs.Delete(AttrTestCases)
	}
	if raw, ok := attrs.Get(AttrValidationRules); ok {
		f.ValidationRules = &ValidationRules{}
		if err := json.Unmarshal(raw, f.ValidationRules); err != nil {
			return fmt.Errorf("attribute %q: %w", AttrValidationRules, err)
		}
		attrs.Delete(AttrValidationRules)
	}
	if f.ValidExample, err = sampleAttr(attrs, AttrValidExample); err != nil {
		return err
	}
	attrs.Delete(AttrValidExample)
	if f.ValidExampleRaw, err = sampleAttr(attrs, AttrValidExampleRaw); err != nil {
		return err
	}
	attrs.Delete(AttrValidExampleRaw)

	f.attrs = attrs
	return nil
}

// MarshalJSON writes the original attributes in input order followed by the
// generated ones.
func (f *Field) MarshalJSON() ([]byte, error) {
	var out *Object
	if f.attrs != nil {
		out = f.attrs.Clone()
	} else {
		out = NewField(f.FieldDefinition).attrs
	}

	if f.TestCases != nil {
		if err := out.SetValue(AttrTestCases, f.TestCases); err != nil {
			return nil, err
		}
	}
	if f.ValidationRules != nil {
		if err := out.SetValue(AttrValidationRules, f.ValidationRules); err != nil {
			return nil, err
		}
	}
	if f.ValidExample != nil {
		if err := out.SetValue(AttrValidExample, *f.ValidExample); err != nil {
			return nil, err
		}
	}
	if f.ValidExampleRaw != nil {
		if err := out.SetValue(AttrValidExampleRaw, *f.ValidExampleRaw); err != nil {
			return nil, err
		}
	}
	return out.MarshalJSON()
}

func stringAttr(attrs *Object, key string) (string, error) {
	raw, ok := attrs.Get(key)
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("attribute %q must be a string: %w", key, err)
	}
	return s, nil
}

func intAttr(attrs *Object, key string) (*int, error) {
	raw, ok := attrs.Get(key)
	if !ok || isNull(raw) {
		return nil, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("attribute %q must be an integer: %w", key, err)
	}
	return &n, nil
}

// sampleAttr accepts strings and bare numbers; catalogs written by hand often
// carry numeric samples such as 1231.
func sampleAttr(attrs *Object, key string) (*string, error) {
	raw, ok := attrs.Get(key)
	if !ok || isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("attribute %q must be a string or number: %w", key, err)
	}
	s = n.String()
	return &s, nil
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

// IntPtr returns a pointer to n
func IntPtr(n int) *int {
	return &n
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// ZeroPad left-pads the decimal form of n with zeros to width digits.
// Numbers wider than width are not truncated.
func ZeroPad(n, width int) string {
	s := strconv.Itoa(n)
	for len(s) < width {
		s = "0" + s
	}
	return s
}
