package fieldgen

import (
	"strings"

	"github.com/isotest/iso-testgen/pkg/types"
)

// DateTimeKeywords are the name fragments that mark a field as date/time
// shaped. Matching is by substring, so "UpdateDate" qualifies.
var DateTimeKeywords = []string{"Date", "Time", "MMDDhhmmss", "MMDD", "YYMM", "hhmmss"}

// DateTimeLengths are the field lengths a date/time field may have
var DateTimeLengths = []int{4, 6, 8, 10, 12}

// DateTimeFormats maps a date/time field length to its format tag.
// Lengths 8 and 12 have no entry and fall back to DefaultDateTimeFormat.
var DateTimeFormats = map[int]string{
	4:  "MMDD",
	6:  "hhmmss",
	10: "MMDDhhmmss",
}

// DefaultDateTimeFormat tags date/time lengths missing from DateTimeFormats
const DefaultDateTimeFormat = "YYMM"

// IsDateTimeField reports whether a field looks like a date or time based on
// its name and length alone. The value itself is never inspected.
func IsDateTimeField(name string, length int) bool {
	if !containsInt(DateTimeLengths, length) {
		return false
	}
	for _, keyword := range DateTimeKeywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// DateTimeFormat returns the format tag for a date/time field of the given
// length. ok is false when the length is a gap in DateTimeFormats and the
// default tag was used.
func DateTimeFormat(length int) (tag string, ok bool) {
	if tag, ok := DateTimeFormats[length]; ok {
		return tag, true
	}
	return DefaultDateTimeFormat, false
}

// Shape is the classification of a field definition
type Shape struct {
	Format string
	Type   string
	// PrefixWidth is the length indicator width for variable-length formats
	PrefixWidth int
	// DateTime is set for fields whose name and length suggest a date/time
	DateTime bool
}

// Variable reports whether the field carries a length indicator
func (s Shape) Variable() bool {
	return s.PrefixWidth > 0
}

// Classify derives the shape of a field definition
func Classify(def types.FieldDefinition) Shape {
	shape := Shape{
		Format:      def.Format,
		Type:        def.Type,
		PrefixWidth: LengthIndicatorWidths[def.Format],
	}
	if def.Length != nil {
		shape.DateTime = IsDateTimeField(def.Name, *def.Length)
	}
	return shape
}

func containsInt(slice []int, item int) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
