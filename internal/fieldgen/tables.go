package fieldgen

import "github.com/isotest/iso-testgen/pkg/types"

// Character alphabets used to draw values
const (
	Digits          = "0123456789"
	Letters         = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Punctuation     = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"
	BinaryDigits    = "01"
	NonBinaryDigits = "23456789"
	HexDigits       = "0123456789abcdefABCDEF"
	NonHexLower     = "ghijklmnopqrstuvwxyz"
	NonHexUpper     = "GHIJKLMNOPQRSTUVWXYZ"
	LettersDigits   = Letters + Digits
)

// Test case keys
const (
	CaseInvalidType            = "invalid_type"
	CaseInvalidSpecialChars    = "invalid_special_chars"
	CaseInvalidBinaryChars     = "invalid_binary_chars"
	CaseInvalidHexChars        = "invalid_hex_chars"
	CaseInvalidDate            = "invalid_date"
	CaseInvalidTime            = "invalid_time"
	CaseInvalidDateTime        = "invalid_datetime"
	CaseInvalidLengthShort     = "invalid_length_short"
	CaseInvalidLengthLong      = "invalid_length_long"
	CaseInvalidLengthExceedMax = "invalid_length_exceed_max"
	CaseInvalidEmpty           = "invalid_empty"
	CaseInvalidLengthIndicator = "invalid_length_indicator"
	CaseMissingLengthIndicator = "missing_length_indicator"
	CaseInvalidBitmapFormat    = "invalid_bitmap_format"
	CaseInvalidBitmapLength    = "invalid_bitmap_length"
)

// invalidCase is a test case drawn at random from alphabet
type invalidCase struct {
	key         string
	alphabet    string
	description string
}

// charset describes the character contract of one data type
type charset struct {
	// allowedChars is the human readable range written to validation rules
	allowedChars string
	// valid is the alphabet for fixed-length valid examples
	valid string
	// invalid lists the type violation cases, in output order
	invalid []invalidCase
}

// charsets is keyed by field type
var charsets = map[string]charset{
	types.TypeNumeric: {
		allowedChars: "0-9",
		valid:        Digits,
		invalid: []invalidCase{
			{CaseInvalidType, Letters, "Contains non-numeric characters"},
			{CaseInvalidSpecialChars, Punctuation, "Contains special characters"},
		},
	},
	types.TypeAlphanumeric: {
		allowedChars: "a-zA-Z0-9",
		valid:        LettersDigits,
		invalid: []invalidCase{
			{CaseInvalidSpecialChars, Punctuation, "Contains invalid special characters"},
		},
	},
	types.TypeBinary: {
		allowedChars: "0-1",
		valid:        BinaryDigits,
		invalid: []invalidCase{
			{CaseInvalidType, LettersDigits, "Contains non-binary characters"},
			{CaseInvalidBinaryChars, NonBinaryDigits, "Contains digits other than 0 and 1"},
		},
	},
	types.TypeHex: {
		allowedChars: "0-9A-F",
		valid:        HexDigits[:16],
		invalid: []invalidCase{
			{CaseInvalidType, NonHexLower + Punctuation, "Contains non-hexadecimal characters"},
			{CaseInvalidHexChars, NonHexUpper, "Contains letters outside the hexadecimal range"},
		},
	},
}

// AllowedChars returns the allowed character range for a field type
func AllowedChars(fieldType string) (string, bool) {
	cs, ok := charsets[fieldType]
	return cs.allowedChars, ok
}

// Types returns the field types with a charset rule
func Types() []string {
	return []string{types.TypeNumeric, types.TypeAlphanumeric, types.TypeBinary, types.TypeHex}
}

// payloadAlphabet is the alphabet for length cases and variable-length
// payloads. Only numeric fields narrow it; binary and hex fields share the
// alphanumeric pool.
func payloadAlphabet(fieldType string) string {
	if fieldType == types.TypeNumeric {
		return Digits
	}
	return LettersDigits
}

// LengthIndicatorWidths maps variable-length formats to the number of digits
// in their length indicator
var LengthIndicatorWidths = map[string]int{
	types.FormatLLVar:  2,
	types.FormatLLLVar: 3,
}

// Formats returns every supported field format
func Formats() []string {
	return []string{types.FormatFixed, types.FormatLLVar, types.FormatLLLVar, types.FormatBitmap}
}

// bitmapShortfall is how many characters invalid_bitmap_length drops
const bitmapShortfall = 8

// dateTimeCase is a fixed, known-invalid date/time value
type dateTimeCase struct {
	key         string
	value       string
	description string
}

// dateTimeCases is keyed by field length. Lengths 8 and 12 classify as
// date/time but have no invalid value defined.
var dateTimeCases = map[int]dateTimeCase{
	4:  {CaseInvalidDate, "1332", "Invalid date value (invalid month)"},
	6:  {CaseInvalidTime, "126000", "Invalid time value (invalid minute)"},
	10: {CaseInvalidDateTime, "1332126000", "Invalid datetime value (invalid month and minute)"},
}
